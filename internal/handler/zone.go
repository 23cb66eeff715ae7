package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scooter/internal/domain"
	internalRedis "scooter/internal/redis"
	"scooter/internal/service"
)

// ZoneHandler handles HTTP requests for zones, overrides, and telemetry ingest.
type ZoneHandler struct {
	zoneService *service.ZoneService
	overrides   *service.OverrideManager
	unitStore   internalRedis.UnitStoreInterface
}

// NewZoneHandler creates a new ZoneHandler.
func NewZoneHandler(
	zoneService *service.ZoneService,
	overrides *service.OverrideManager,
	unitStore internalRedis.UnitStoreInterface,
) *ZoneHandler {
	return &ZoneHandler{
		zoneService: zoneService,
		overrides:   overrides,
		unitStore:   unitStore,
	}
}

// ZoneResponse is the HTTP representation of a zone's pricing state.
type ZoneResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BasePrice      float64 `json:"base_price"`
	CenterLat      float64 `json:"center_lat"`
	CenterLng      float64 `json:"center_lng"`
	RadiusKm       float64 `json:"radius_km"`
	Multiplier     float64 `json:"multiplier"`
	CurrentPrice   float64 `json:"current_price"`
	SurgeActive    bool    `json:"surge_active"`
	DemandLevel    string  `json:"demand_level"`
	ActiveRides    int     `json:"active_rides"`
	AvailableUnits int     `json:"available_units"`
	MaxMultiplier  float64 `json:"max_multiplier"`
	Active         bool    `json:"active"`
	LastComputedAt string  `json:"last_computed_at,omitempty"`
}

func zoneResponse(z *domain.Zone) ZoneResponse {
	resp := ZoneResponse{
		ID:             z.ID,
		Name:           z.Name,
		BasePrice:      z.BasePrice,
		CenterLat:      z.CenterLat,
		CenterLng:      z.CenterLng,
		RadiusKm:       z.RadiusKm,
		Multiplier:     z.Multiplier,
		CurrentPrice:   z.CurrentPrice,
		SurgeActive:    z.Multiplier > 1.0,
		DemandLevel:    string(z.DemandLevel),
		ActiveRides:    z.ActiveRides,
		AvailableUnits: z.AvailableUnits,
		MaxMultiplier:  z.MaxMultiplier,
		Active:         z.Active,
	}
	if !z.LastComputedAt.IsZero() {
		resp.LastComputedAt = z.LastComputedAt.Format(time.RFC3339)
	}
	return resp
}

// GetAll handles GET /v1/zones
func (h *ZoneHandler) GetAll(c *gin.Context) {
	zones, err := h.zoneService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ZoneResponse, 0, len(zones))
	for _, z := range zones {
		response = append(response, zoneResponse(z))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetZone handles GET /v1/zones/:id
func (h *ZoneHandler) GetZone(c *gin.Context) {
	zone, err := h.zoneService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, zoneResponse(zone))
}

// SetOverrideRequest is the HTTP request body for issuing a manual override.
type SetOverrideRequest struct {
	Multiplier      float64 `json:"multiplier"`
	DurationMinutes int     `json:"duration_minutes"`
	Reason          string  `json:"reason,omitempty"`
}

// OverrideResponse is the HTTP representation of an active override.
type OverrideResponse struct {
	ZoneID          string  `json:"zone_id"`
	Multiplier      float64 `json:"multiplier"`
	Reason          string  `json:"reason,omitempty"`
	IssuedBy        string  `json:"issued_by,omitempty"`
	IssuedAt        string  `json:"issued_at"`
	DurationMinutes int     `json:"duration_minutes"`
	ExpiresAt       string  `json:"expires_at"`
}

// SetOverride handles POST /v1/zones/:id/override
func (h *ZoneHandler) SetOverride(c *gin.Context) {
	zoneID := c.Param("id")

	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	// Reject unknown zones before touching the override slot.
	if _, err := h.zoneService.Get(c.Request.Context(), zoneID); err != nil {
		respondError(c, err)
		return
	}

	override, err := h.overrides.Set(service.SetOverrideRequest{
		ZoneID:     zoneID,
		Multiplier: req.Multiplier,
		Duration:   time.Duration(req.DurationMinutes) * time.Minute,
		IssuedBy:   c.GetHeader("X-Operator-ID"),
		Reason:     req.Reason,
	}, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, OverrideResponse{
		ZoneID:          override.ZoneID,
		Multiplier:      override.Multiplier,
		Reason:          override.Reason,
		IssuedBy:        override.IssuedBy,
		IssuedAt:        override.IssuedAt.Format(time.RFC3339),
		DurationMinutes: int(override.Duration / time.Minute),
		ExpiresAt:       override.ExpiresAt.Format(time.RFC3339),
	})
}

// ClearOverride handles DELETE /v1/zones/:id/override
func (h *ZoneHandler) ClearOverride(c *gin.Context) {
	zoneID := c.Param("id")

	if _, err := h.zoneService.Get(c.Request.Context(), zoneID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.overrides.Clear(zoneID, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TelemetryRequest is the HTTP request body for fleet telemetry ingest.
// Pushed by the fleet and booking subsystems, not by the dashboard.
type TelemetryRequest struct {
	Units []struct {
		ID  string  `json:"id"`
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"units"`
	ActiveRides *int `json:"active_rides,omitempty"`
}

// IngestTelemetry handles POST /v1/zones/:id/telemetry
func (h *ZoneHandler) IngestTelemetry(c *gin.Context) {
	zoneID := c.Param("id")

	if _, err := h.zoneService.Get(c.Request.Context(), zoneID); err != nil {
		respondError(c, err)
		return
	}

	var req TelemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	for _, unit := range req.Units {
		if unit.ID == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unit id is required"})
			return
		}
		if err := h.unitStore.UpdateUnitLocation(ctx, unit.ID, unit.Lat, unit.Lng); err != nil {
			respondError(c, service.ErrUpstreamUnavailable)
			return
		}
	}
	if req.ActiveRides != nil {
		if err := h.unitStore.SetActiveRides(ctx, zoneID, *req.ActiveRides); err != nil {
			respondError(c, service.ErrUpstreamUnavailable)
			return
		}
	}

	c.Status(http.StatusAccepted)
}
