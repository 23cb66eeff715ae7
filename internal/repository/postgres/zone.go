package postgres

import (
	"context"
	"database/sql"
	"errors"

	"scooter/internal/domain"
	"scooter/internal/repository"
)

// ZoneRepository is a PostgreSQL implementation of repository.ZoneRepository.
type ZoneRepository struct {
	q Querier
}

// NewZoneRepository creates a new PostgreSQL zone repository.
func NewZoneRepository(db *sql.DB) *ZoneRepository {
	return &ZoneRepository{q: db}
}

// NewZoneRepositoryWithTx creates a zone repository using a transaction.
func NewZoneRepositoryWithTx(tx *sql.Tx) *ZoneRepository {
	return &ZoneRepository{q: tx}
}

const zoneColumns = `id, name, base_price, center_lat, center_lng, radius_km, geometry, multiplier, current_price, demand_level, active_rides, available_units, max_multiplier, active, last_computed_at, created_at`

// Create persists a new zone.
func (r *ZoneRepository) Create(ctx context.Context, zone *domain.Zone) error {
	query := `
		INSERT INTO zones (` + zoneColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	var geometry sql.NullString
	if zone.Geometry != "" {
		geometry = sql.NullString{String: zone.Geometry, Valid: true}
	}

	var lastComputedAt sql.NullTime
	if !zone.LastComputedAt.IsZero() {
		lastComputedAt = sql.NullTime{Time: zone.LastComputedAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		zone.ID,
		zone.Name,
		zone.BasePrice,
		zone.CenterLat,
		zone.CenterLng,
		zone.RadiusKm,
		geometry,
		zone.Multiplier,
		zone.CurrentPrice,
		zone.DemandLevel,
		zone.ActiveRides,
		zone.AvailableUnits,
		zone.MaxMultiplier,
		zone.Active,
		lastComputedAt,
		zone.CreatedAt,
	)

	return err
}

// GetByID retrieves a zone by ID.
func (r *ZoneRepository) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE id = $1`

	zone, err := scanZone(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return zone, nil
}

// GetAll retrieves all zones.
func (r *ZoneRepository) GetAll(ctx context.Context) ([]*domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []*domain.Zone
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, rows.Err()
}

// UpdatePricing persists the pricing state of a zone in one statement.
func (r *ZoneRepository) UpdatePricing(ctx context.Context, zone *domain.Zone) error {
	query := `
		UPDATE zones
		SET multiplier = $1, current_price = $2, demand_level = $3, active_rides = $4, available_units = $5, last_computed_at = $6
		WHERE id = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		zone.Multiplier,
		zone.CurrentPrice,
		zone.DemandLevel,
		zone.ActiveRides,
		zone.AvailableUnits,
		zone.LastComputedAt,
		zone.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive flips the zone's operational flag.
func (r *ZoneRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.q.ExecContext(ctx, `UPDATE zones SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(row rowScanner) (*domain.Zone, error) {
	var zone domain.Zone
	var geometry sql.NullString
	var lastComputedAt sql.NullTime

	err := row.Scan(
		&zone.ID,
		&zone.Name,
		&zone.BasePrice,
		&zone.CenterLat,
		&zone.CenterLng,
		&zone.RadiusKm,
		&geometry,
		&zone.Multiplier,
		&zone.CurrentPrice,
		&zone.DemandLevel,
		&zone.ActiveRides,
		&zone.AvailableUnits,
		&zone.MaxMultiplier,
		&zone.Active,
		&lastComputedAt,
		&zone.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if geometry.Valid {
		zone.Geometry = geometry.String
	}
	if lastComputedAt.Valid {
		zone.LastComputedAt = lastComputedAt.Time
	}

	return &zone, nil
}
