package repository

import (
	"context"

	"scooter/internal/domain"
)

// ZoneRepository defines the persistence operations for pricing zones.
// Zones are never deleted; deactivation is a status flag.
type ZoneRepository interface {
	// Create persists a new zone.
	Create(ctx context.Context, zone *domain.Zone) error

	// GetByID retrieves a zone by ID.
	GetByID(ctx context.Context, id string) (*domain.Zone, error)

	// GetAll retrieves all zones, active and inactive.
	GetAll(ctx context.Context) ([]*domain.Zone, error)

	// UpdatePricing persists the pricing state of a zone: multiplier, price,
	// demand level, telemetry counts, and the last-computed timestamp, in one
	// statement.
	UpdatePricing(ctx context.Context, zone *domain.Zone) error

	// SetActive flips the zone's operational flag.
	SetActive(ctx context.Context, id string, active bool) error
}
