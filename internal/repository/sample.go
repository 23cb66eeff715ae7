package repository

import (
	"context"
	"time"

	"scooter/internal/domain"
)

// SampleRepository defines the append-only price sample log.
type SampleRepository interface {
	// Append writes one immutable price sample.
	Append(ctx context.Context, sample *domain.PriceSample) error

	// ListRange retrieves samples with from <= timestamp < to, across all
	// zones, ordered by timestamp ascending.
	ListRange(ctx context.Context, from, to time.Time) ([]*domain.PriceSample, error)

	// ListZoneRange retrieves samples for one zone within [from, to),
	// ordered by timestamp ascending.
	ListZoneRange(ctx context.Context, zoneID string, from, to time.Time) ([]*domain.PriceSample, error)
}
