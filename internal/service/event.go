package service

import (
	"context"
	"time"

	"scooter/internal/domain"
	"scooter/internal/repository"
)

// EventService exposes scheduled demand-spike events. Events are read-only
// reference data for cultural_event rules; the engine never mutates them
// beyond initial seeding.
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// GetAll retrieves all events ordered by start time.
func (s *EventService) GetAll(ctx context.Context) ([]*domain.DemandEvent, error) {
	return s.eventRepo.GetAll(ctx)
}

// ActiveAt returns the events in progress at the given time as an isolated
// copy, suitable for one orchestrator tick.
func (s *EventService) ActiveAt(ctx context.Context, at time.Time) ([]*domain.DemandEvent, error) {
	events, err := s.eventRepo.ListActive(ctx, at)
	if err != nil {
		return nil, err
	}

	snapshot := make([]*domain.DemandEvent, len(events))
	for i, event := range events {
		copied := *event
		snapshot[i] = &copied
	}
	return snapshot, nil
}
