package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"scooter/internal/domain"
)

// EventRepository is a PostgreSQL implementation of repository.EventRepository.
type EventRepository struct {
	q Querier
}

// NewEventRepository creates a new PostgreSQL event repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{q: db}
}

const eventColumns = `id, name, zone_ids, starts_at, ends_at, expected_demand, created_at`

// Create persists a new demand event.
func (r *EventRepository) Create(ctx context.Context, event *domain.DemandEvent) error {
	query := `
		INSERT INTO demand_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		event.ID,
		event.Name,
		pq.Array(event.ZoneIDs),
		event.StartsAt,
		event.EndsAt,
		event.ExpectedDemand,
		event.CreatedAt,
	)
	return err
}

// GetAll retrieves all events ordered by start time.
func (r *EventRepository) GetAll(ctx context.Context) ([]*domain.DemandEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM demand_events ORDER BY starts_at`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListActive retrieves events in progress at the given time.
func (r *EventRepository) ListActive(ctx context.Context, at time.Time) ([]*domain.DemandEvent, error) {
	query := `
		SELECT ` + eventColumns + ` FROM demand_events
		WHERE starts_at <= $1 AND ends_at > $1
		ORDER BY starts_at
	`

	rows, err := r.q.QueryContext(ctx, query, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*domain.DemandEvent, error) {
	var events []*domain.DemandEvent
	for rows.Next() {
		var e domain.DemandEvent
		var zoneIDs pq.StringArray
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&zoneIDs,
			&e.StartsAt,
			&e.EndsAt,
			&e.ExpectedDemand,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.ZoneIDs = zoneIDs
		events = append(events, &e)
	}
	return events, rows.Err()
}
