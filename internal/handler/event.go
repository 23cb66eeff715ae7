package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scooter/internal/domain"
	"scooter/internal/service"
)

// EventHandler handles HTTP requests for scheduled demand events.
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventResponse is the HTTP representation of a demand event.
type EventResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ZoneIDs        []string `json:"zone_ids,omitempty"`
	StartsAt       string   `json:"starts_at"`
	EndsAt         string   `json:"ends_at"`
	ExpectedDemand string   `json:"expected_demand"`
	InProgress     bool     `json:"in_progress"`
}

// GetAll handles GET /v1/events
func (h *EventHandler) GetAll(c *gin.Context) {
	events, err := h.eventService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	response := make([]EventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, eventResponse(e, now))
	}
	respondJSON(c, http.StatusOK, response)
}

func eventResponse(e *domain.DemandEvent, now time.Time) EventResponse {
	return EventResponse{
		ID:             e.ID,
		Name:           e.Name,
		ZoneIDs:        e.ZoneIDs,
		StartsAt:       e.StartsAt.Format(time.RFC3339),
		EndsAt:         e.EndsAt.Format(time.RFC3339),
		ExpectedDemand: string(e.ExpectedDemand),
		InProgress:     e.InProgress(now),
	}
}
