package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"scooter/internal/domain"
	"scooter/internal/repository"
)

// RuleService is the CRUD boundary for pricing rules and the single
// enforcement point for their constraints. Malformed rules are rejected here,
// at create/update time — never during evaluation.
type RuleService struct {
	ruleRepo repository.RuleRepository
}

// NewRuleService creates a new RuleService.
func NewRuleService(ruleRepo repository.RuleRepository) *RuleService {
	return &RuleService{ruleRepo: ruleRepo}
}

// CreateRuleRequest contains the parameters for creating a rule.
type CreateRuleRequest struct {
	Name    string
	Type    domain.RuleType
	Active  bool
	ZoneIDs []string

	StartMinute    int
	EndMinute      int
	Weekdays       []time.Weekday
	Conditions     []domain.WeatherCondition
	TempThreshold  *float64
	MinDemandRatio float64
	EventIDs       []string

	Multiplier         float64
	MaxMultiplier      float64
	MinQualifyingRatio float64
}

// Create validates and persists a new rule.
func (s *RuleService) Create(ctx context.Context, req CreateRuleRequest) (*domain.PricingRule, error) {
	now := time.Now()
	rule := &domain.PricingRule{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Type:               req.Type,
		Active:             req.Active,
		ZoneIDs:            req.ZoneIDs,
		StartMinute:        req.StartMinute,
		EndMinute:          req.EndMinute,
		Weekdays:           req.Weekdays,
		Conditions:         req.Conditions,
		TempThreshold:      req.TempThreshold,
		MinDemandRatio:     req.MinDemandRatio,
		EventIDs:           req.EventIDs,
		Multiplier:         req.Multiplier,
		MaxMultiplier:      req.MaxMultiplier,
		MinQualifyingRatio: req.MinQualifyingRatio,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := validateRule(rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRuleRequest carries patch semantics: nil fields are left unchanged.
type UpdateRuleRequest struct {
	Name    *string
	Active  *bool
	ZoneIDs *[]string

	StartMinute    *int
	EndMinute      *int
	Weekdays       *[]time.Weekday
	Conditions     *[]domain.WeatherCondition
	TempThreshold  *float64
	MinDemandRatio *float64
	EventIDs       *[]string

	Multiplier         *float64
	MaxMultiplier      *float64
	MinQualifyingRatio *float64
}

// Update applies a patch to an existing rule in place. Rules are never
// versioned; evaluations already computed against the old definition are
// unaffected.
func (s *RuleService) Update(ctx context.Context, id string, req UpdateRuleRequest) (*domain.PricingRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if req.ZoneIDs != nil {
		rule.ZoneIDs = *req.ZoneIDs
	}
	if req.StartMinute != nil {
		rule.StartMinute = *req.StartMinute
	}
	if req.EndMinute != nil {
		rule.EndMinute = *req.EndMinute
	}
	if req.Weekdays != nil {
		rule.Weekdays = *req.Weekdays
	}
	if req.Conditions != nil {
		rule.Conditions = *req.Conditions
	}
	if req.TempThreshold != nil {
		rule.TempThreshold = req.TempThreshold
	}
	if req.MinDemandRatio != nil {
		rule.MinDemandRatio = *req.MinDemandRatio
	}
	if req.EventIDs != nil {
		rule.EventIDs = *req.EventIDs
	}
	if req.Multiplier != nil {
		rule.Multiplier = *req.Multiplier
	}
	if req.MaxMultiplier != nil {
		rule.MaxMultiplier = *req.MaxMultiplier
	}
	if req.MinQualifyingRatio != nil {
		rule.MinQualifyingRatio = *req.MinQualifyingRatio
	}
	rule.UpdatedAt = time.Now()

	if err := validateRule(rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

// Get retrieves one rule.
func (s *RuleService) Get(ctx context.Context, id string) (*domain.PricingRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

// List retrieves rules matching the filter.
func (s *RuleService) List(ctx context.Context, filter repository.RuleFilter) ([]*domain.PricingRule, error) {
	return s.ruleRepo.List(ctx, filter)
}

// Delete removes a rule from future evaluation immediately. Historical price
// samples that recorded the rule's ID are untouched.
func (s *RuleService) Delete(ctx context.Context, id string) error {
	err := s.ruleRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRuleNotFound
	}
	return err
}

// Snapshot returns the active rules as an isolated copy for one orchestrator
// tick, so a rule edited mid-tick never produces a half-applied read.
func (s *RuleService) Snapshot(ctx context.Context) ([]*domain.PricingRule, error) {
	active := true
	rules, err := s.ruleRepo.List(ctx, repository.RuleFilter{Active: &active})
	if err != nil {
		return nil, err
	}

	snapshot := make([]*domain.PricingRule, len(rules))
	for i, rule := range rules {
		copied := *rule
		snapshot[i] = &copied
	}
	return snapshot, nil
}

// validateRule checks rule constraints. Violations map to HTTP 422 at the
// handler boundary.
func validateRule(rule *domain.PricingRule) error {
	if rule.Name == "" {
		return ErrInvalidRuleDefinition
	}
	if !domain.ValidRuleType(rule.Type) {
		return ErrInvalidRuleDefinition
	}
	if rule.Multiplier < 1.0 {
		return ErrInvalidRuleDefinition
	}
	if rule.MaxMultiplier < 1.0 || rule.Multiplier > rule.MaxMultiplier {
		return ErrInvalidRuleDefinition
	}
	if rule.StartMinute < 0 || rule.StartMinute >= domain.MinutesPerDay ||
		rule.EndMinute < 0 || rule.EndMinute >= domain.MinutesPerDay {
		return ErrInvalidRuleDefinition
	}
	if rule.MinDemandRatio < 0 || rule.MinQualifyingRatio < 0 {
		return ErrInvalidRuleDefinition
	}
	for _, c := range rule.Conditions {
		if !domain.ValidWeatherCondition(c) {
			return ErrInvalidRuleDefinition
		}
	}
	if rule.Type == domain.RuleDemandBased && rule.MinDemandRatio == 0 {
		return ErrInvalidRuleDefinition
	}
	if rule.Type == domain.RuleWeatherBased && len(rule.Conditions) == 0 {
		return ErrInvalidRuleDefinition
	}
	return nil
}
