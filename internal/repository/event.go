package repository

import (
	"context"
	"time"

	"scooter/internal/domain"
)

// EventRepository defines read access to scheduled demand events
// (reference data for cultural_event rules).
type EventRepository interface {
	// Create persists a new event.
	Create(ctx context.Context, event *domain.DemandEvent) error

	// GetAll retrieves all events ordered by start time.
	GetAll(ctx context.Context) ([]*domain.DemandEvent, error)

	// ListActive retrieves events in progress at the given time.
	ListActive(ctx context.Context, at time.Time) ([]*domain.DemandEvent, error)
}
