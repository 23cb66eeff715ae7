package repository

import (
	"context"

	"scooter/internal/domain"
)

// RuleFilter narrows rule listings. Zero values mean "no filter".
type RuleFilter struct {
	Type   domain.RuleType
	Active *bool
}

// RuleRepository defines the persistence operations for pricing rules.
type RuleRepository interface {
	// Create persists a new rule.
	Create(ctx context.Context, rule *domain.PricingRule) error

	// GetByID retrieves a rule by ID.
	GetByID(ctx context.Context, id string) (*domain.PricingRule, error)

	// List retrieves rules matching the filter.
	List(ctx context.Context, filter RuleFilter) ([]*domain.PricingRule, error)

	// Update replaces an existing rule in place.
	Update(ctx context.Context, rule *domain.PricingRule) error

	// Delete removes a rule. Deleted rules vanish from future evaluations
	// immediately; historical price samples are untouched.
	Delete(ctx context.Context, id string) error
}
