package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"scooter/internal/domain"
	"scooter/internal/repository"
)

// RuleRepository is a PostgreSQL implementation of repository.RuleRepository.
type RuleRepository struct {
	q Querier
}

// NewRuleRepository creates a new PostgreSQL rule repository.
func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{q: db}
}

const ruleColumns = `id, name, type, active, zone_ids, start_minute, end_minute, weekdays, conditions, temp_threshold, min_demand_ratio, event_ids, multiplier, max_multiplier, min_qualifying_ratio, revenue_lift_pct, satisfaction_score, utilization_delta_pct, created_at, updated_at`

// Create persists a new rule.
func (r *RuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	query := `
		INSERT INTO pricing_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.q.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		rule.Type,
		rule.Active,
		pq.Array(rule.ZoneIDs),
		rule.StartMinute,
		rule.EndMinute,
		pq.Array(weekdaysToInts(rule.Weekdays)),
		pq.Array(conditionsToStrings(rule.Conditions)),
		nullFloat(rule.TempThreshold),
		rule.MinDemandRatio,
		pq.Array(rule.EventIDs),
		rule.Multiplier,
		rule.MaxMultiplier,
		rule.MinQualifyingRatio,
		rule.RevenueLiftPct,
		rule.SatisfactionScore,
		rule.UtilizationDeltaPct,
		rule.CreatedAt,
		rule.UpdatedAt,
	)

	return err
}

// GetByID retrieves a rule by ID.
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*domain.PricingRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM pricing_rules WHERE id = $1`

	rule, err := scanRule(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rule, nil
}

// List retrieves rules matching the filter.
func (r *RuleRepository) List(ctx context.Context, filter repository.RuleFilter) ([]*domain.PricingRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM pricing_rules WHERE 1=1`
	var args []any

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += ` AND type = $1`
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		if len(args) == 1 {
			query += ` AND active = $1`
		} else {
			query += ` AND active = $2`
		}
	}
	query += ` ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.PricingRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Update replaces an existing rule in place.
func (r *RuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	query := `
		UPDATE pricing_rules
		SET name = $1, type = $2, active = $3, zone_ids = $4, start_minute = $5, end_minute = $6, weekdays = $7, conditions = $8, temp_threshold = $9, min_demand_ratio = $10, event_ids = $11, multiplier = $12, max_multiplier = $13, min_qualifying_ratio = $14, revenue_lift_pct = $15, satisfaction_score = $16, utilization_delta_pct = $17, updated_at = $18
		WHERE id = $19
	`

	result, err := r.q.ExecContext(ctx, query,
		rule.Name,
		rule.Type,
		rule.Active,
		pq.Array(rule.ZoneIDs),
		rule.StartMinute,
		rule.EndMinute,
		pq.Array(weekdaysToInts(rule.Weekdays)),
		pq.Array(conditionsToStrings(rule.Conditions)),
		nullFloat(rule.TempThreshold),
		rule.MinDemandRatio,
		pq.Array(rule.EventIDs),
		rule.Multiplier,
		rule.MaxMultiplier,
		rule.MinQualifyingRatio,
		rule.RevenueLiftPct,
		rule.SatisfactionScore,
		rule.UtilizationDeltaPct,
		rule.UpdatedAt,
		rule.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a rule.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM pricing_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanRule(row rowScanner) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	var zoneIDs, eventIDs pq.StringArray
	var weekdays pq.Int64Array
	var conditions pq.StringArray
	var tempThreshold sql.NullFloat64

	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Type,
		&rule.Active,
		&zoneIDs,
		&rule.StartMinute,
		&rule.EndMinute,
		&weekdays,
		&conditions,
		&tempThreshold,
		&rule.MinDemandRatio,
		&eventIDs,
		&rule.Multiplier,
		&rule.MaxMultiplier,
		&rule.MinQualifyingRatio,
		&rule.RevenueLiftPct,
		&rule.SatisfactionScore,
		&rule.UtilizationDeltaPct,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.ZoneIDs = zoneIDs
	rule.EventIDs = eventIDs
	rule.Weekdays = intsToWeekdays(weekdays)
	for _, c := range conditions {
		rule.Conditions = append(rule.Conditions, domain.WeatherCondition(c))
	}
	if tempThreshold.Valid {
		v := tempThreshold.Float64
		rule.TempThreshold = &v
	}

	return &rule, nil
}

func weekdaysToInts(weekdays []time.Weekday) []int64 {
	out := make([]int64, 0, len(weekdays))
	for _, w := range weekdays {
		out = append(out, int64(w))
	}
	return out
}

func intsToWeekdays(ints []int64) []time.Weekday {
	out := make([]time.Weekday, 0, len(ints))
	for _, i := range ints {
		out = append(out, time.Weekday(i))
	}
	return out
}

func conditionsToStrings(conditions []domain.WeatherCondition) []string {
	out := make([]string, 0, len(conditions))
	for _, c := range conditions {
		out = append(out, string(c))
	}
	return out
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
