package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scooter/internal/domain"
	"scooter/internal/repository"
	"scooter/internal/service"
)

// RuleHandler handles HTTP requests for pricing rules.
type RuleHandler struct {
	ruleService *service.RuleService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleService *service.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// RuleResponse is the HTTP representation of a pricing rule.
type RuleResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Active  bool     `json:"active"`
	ZoneIDs []string `json:"zone_ids,omitempty"`

	StartTime      string   `json:"start_time,omitempty"`
	EndTime        string   `json:"end_time,omitempty"`
	Weekdays       []int    `json:"weekdays,omitempty"`
	Conditions     []string `json:"conditions,omitempty"`
	TempThreshold  *float64 `json:"temp_threshold,omitempty"`
	MinDemandRatio float64  `json:"min_demand_ratio,omitempty"`
	EventIDs       []string `json:"event_ids,omitempty"`

	Multiplier         float64 `json:"multiplier"`
	MaxMultiplier      float64 `json:"max_multiplier"`
	MinQualifyingRatio float64 `json:"min_qualifying_ratio,omitempty"`

	RevenueLiftPct      float64 `json:"revenue_lift_pct"`
	SatisfactionScore   float64 `json:"satisfaction_score"`
	UtilizationDeltaPct float64 `json:"utilization_delta_pct"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func ruleResponse(r *domain.PricingRule) RuleResponse {
	resp := RuleResponse{
		ID:                  r.ID,
		Name:                r.Name,
		Type:                string(r.Type),
		Active:              r.Active,
		ZoneIDs:             r.ZoneIDs,
		MinDemandRatio:      r.MinDemandRatio,
		EventIDs:            r.EventIDs,
		Multiplier:          r.Multiplier,
		MaxMultiplier:       r.MaxMultiplier,
		MinQualifyingRatio:  r.MinQualifyingRatio,
		TempThreshold:       r.TempThreshold,
		RevenueLiftPct:      r.RevenueLiftPct,
		SatisfactionScore:   r.SatisfactionScore,
		UtilizationDeltaPct: r.UtilizationDeltaPct,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           r.UpdatedAt.Format(time.RFC3339),
	}
	if r.Type == domain.RuleTimeBased {
		resp.StartTime = domain.FormatClock(r.StartMinute)
		resp.EndTime = domain.FormatClock(r.EndMinute)
	}
	for _, w := range r.Weekdays {
		resp.Weekdays = append(resp.Weekdays, int(w))
	}
	for _, c := range r.Conditions {
		resp.Conditions = append(resp.Conditions, string(c))
	}
	return resp
}

// CreateRuleRequest is the HTTP request body for creating a rule.
type CreateRuleRequest struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Active  *bool    `json:"active,omitempty"` // defaults to true
	ZoneIDs []string `json:"zone_ids,omitempty"`

	StartTime      string   `json:"start_time,omitempty"` // "HH:MM"
	EndTime        string   `json:"end_time,omitempty"`   // "HH:MM"
	Weekdays       []int    `json:"weekdays,omitempty"`   // 0=Sunday
	Conditions     []string `json:"conditions,omitempty"`
	TempThreshold  *float64 `json:"temp_threshold,omitempty"`
	MinDemandRatio float64  `json:"min_demand_ratio,omitempty"`
	EventIDs       []string `json:"event_ids,omitempty"`

	Multiplier         float64 `json:"multiplier"`
	MaxMultiplier      float64 `json:"max_multiplier"`
	MinQualifyingRatio float64 `json:"min_qualifying_ratio,omitempty"`
}

// CreateRule handles POST /v1/rules
func (h *RuleHandler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	createReq := service.CreateRuleRequest{
		Name:               req.Name,
		Type:               domain.RuleType(req.Type),
		Active:             true,
		ZoneIDs:            req.ZoneIDs,
		Conditions:         toConditions(req.Conditions),
		TempThreshold:      req.TempThreshold,
		MinDemandRatio:     req.MinDemandRatio,
		EventIDs:           req.EventIDs,
		Multiplier:         req.Multiplier,
		MaxMultiplier:      req.MaxMultiplier,
		MinQualifyingRatio: req.MinQualifyingRatio,
	}
	if req.Active != nil {
		createReq.Active = *req.Active
	}
	for _, w := range req.Weekdays {
		createReq.Weekdays = append(createReq.Weekdays, time.Weekday(w))
	}

	if req.StartTime != "" {
		minute, err := domain.ParseClock(req.StartTime)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		createReq.StartMinute = minute
	}
	if req.EndTime != "" {
		minute, err := domain.ParseClock(req.EndTime)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		createReq.EndMinute = minute
	}

	rule, err := h.ruleService.Create(c.Request.Context(), createReq)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, ruleResponse(rule))
}

// UpdateRuleRequest is the HTTP request body for patching a rule.
type UpdateRuleRequest struct {
	Name    *string   `json:"name,omitempty"`
	Active  *bool     `json:"active,omitempty"`
	ZoneIDs *[]string `json:"zone_ids,omitempty"`

	StartTime      *string   `json:"start_time,omitempty"`
	EndTime        *string   `json:"end_time,omitempty"`
	Weekdays       *[]int    `json:"weekdays,omitempty"`
	Conditions     *[]string `json:"conditions,omitempty"`
	TempThreshold  *float64  `json:"temp_threshold,omitempty"`
	MinDemandRatio *float64  `json:"min_demand_ratio,omitempty"`
	EventIDs       *[]string `json:"event_ids,omitempty"`

	Multiplier         *float64 `json:"multiplier,omitempty"`
	MaxMultiplier      *float64 `json:"max_multiplier,omitempty"`
	MinQualifyingRatio *float64 `json:"min_qualifying_ratio,omitempty"`
}

// UpdateRule handles PATCH /v1/rules/:id
func (h *RuleHandler) UpdateRule(c *gin.Context) {
	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	updateReq := service.UpdateRuleRequest{
		Name:               req.Name,
		Active:             req.Active,
		ZoneIDs:            req.ZoneIDs,
		TempThreshold:      req.TempThreshold,
		MinDemandRatio:     req.MinDemandRatio,
		EventIDs:           req.EventIDs,
		Multiplier:         req.Multiplier,
		MaxMultiplier:      req.MaxMultiplier,
		MinQualifyingRatio: req.MinQualifyingRatio,
	}

	if req.Weekdays != nil {
		weekdays := make([]time.Weekday, 0, len(*req.Weekdays))
		for _, w := range *req.Weekdays {
			weekdays = append(weekdays, time.Weekday(w))
		}
		updateReq.Weekdays = &weekdays
	}
	if req.Conditions != nil {
		conditions := toConditions(*req.Conditions)
		updateReq.Conditions = &conditions
	}
	if req.StartTime != nil {
		minute, err := domain.ParseClock(*req.StartTime)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		updateReq.StartMinute = &minute
	}
	if req.EndTime != nil {
		minute, err := domain.ParseClock(*req.EndTime)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		updateReq.EndMinute = &minute
	}

	rule, err := h.ruleService.Update(c.Request.Context(), c.Param("id"), updateReq)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, ruleResponse(rule))
}

// GetAll handles GET /v1/rules
func (h *RuleHandler) GetAll(c *gin.Context) {
	filter := repository.RuleFilter{
		Type: domain.RuleType(c.Query("type")),
	}
	if activeParam := c.Query("active"); activeParam != "" {
		active := activeParam == "true"
		filter.Active = &active
	}

	rules, err := h.ruleService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RuleResponse, 0, len(rules))
	for _, r := range rules {
		response = append(response, ruleResponse(r))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetRule handles GET /v1/rules/:id
func (h *RuleHandler) GetRule(c *gin.Context) {
	rule, err := h.ruleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, ruleResponse(rule))
}

// DeleteRule handles DELETE /v1/rules/:id
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	if err := h.ruleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toConditions(values []string) []domain.WeatherCondition {
	conditions := make([]domain.WeatherCondition, 0, len(values))
	for _, v := range values {
		conditions = append(conditions, domain.WeatherCondition(v))
	}
	return conditions
}
