package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scooter/internal/service"
)

// AnalyticsHandler handles HTTP requests for pricing analytics.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetSummary handles GET /v1/analytics?range=24h|7d|30d
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.analytics.Summarize(c.Request.Context(), c.Query("range"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, summary)
}
