package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"scooter/internal/repository"
	"scooter/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrZoneNotFound),
		errors.Is(err, service.ErrRuleNotFound),
		errors.Is(err, service.ErrNoActiveOverride):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOverrideMultiplier),
		errors.Is(err, service.ErrInvalidOverrideDuration),
		errors.Is(err, service.ErrInvalidRange):
		return http.StatusBadRequest

	// Constraint violations on rule definitions
	case errors.Is(err, service.ErrInvalidRuleDefinition):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, service.ErrZoneInactive):
		return http.StatusConflict

	// Upstream feed failures (absorbed by the orchestrator; surfaced only by
	// direct telemetry reads)
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
