package postgres

import (
	"context"
	"database/sql"
	"time"

	"scooter/internal/domain"
)

// SampleRepository is a PostgreSQL implementation of repository.SampleRepository.
// Price samples are append-only; there is no update or delete path.
type SampleRepository struct {
	q Querier
}

// NewSampleRepository creates a new PostgreSQL sample repository.
func NewSampleRepository(db *sql.DB) *SampleRepository {
	return &SampleRepository{q: db}
}

const sampleColumns = `id, zone_id, ts, multiplier, price, demand_level, demand_ratio, source`

// Append writes one immutable price sample.
func (r *SampleRepository) Append(ctx context.Context, sample *domain.PriceSample) error {
	query := `
		INSERT INTO price_samples (` + sampleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		sample.ID,
		sample.ZoneID,
		sample.Timestamp,
		sample.Multiplier,
		sample.Price,
		sample.DemandLevel,
		sample.DemandRatio,
		sample.Source,
	)
	return err
}

// ListRange retrieves samples across all zones within [from, to).
func (r *SampleRepository) ListRange(ctx context.Context, from, to time.Time) ([]*domain.PriceSample, error) {
	query := `
		SELECT ` + sampleColumns + ` FROM price_samples
		WHERE ts >= $1 AND ts < $2
		ORDER BY ts
	`

	rows, err := r.q.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSamples(rows)
}

// ListZoneRange retrieves samples for one zone within [from, to).
func (r *SampleRepository) ListZoneRange(ctx context.Context, zoneID string, from, to time.Time) ([]*domain.PriceSample, error) {
	query := `
		SELECT ` + sampleColumns + ` FROM price_samples
		WHERE zone_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts
	`

	rows, err := r.q.QueryContext(ctx, query, zoneID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSamples(rows)
}

func collectSamples(rows *sql.Rows) ([]*domain.PriceSample, error) {
	var samples []*domain.PriceSample
	for rows.Next() {
		var s domain.PriceSample
		if err := rows.Scan(
			&s.ID,
			&s.ZoneID,
			&s.Timestamp,
			&s.Multiplier,
			&s.Price,
			&s.DemandLevel,
			&s.DemandRatio,
			&s.Source,
		); err != nil {
			return nil, err
		}
		samples = append(samples, &s)
	}
	return samples, rows.Err()
}
