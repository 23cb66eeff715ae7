package service

import (
	"time"

	"scooter/internal/domain"
)

// RuleEngine decides the automatic price multiplier for a zone at a point in
// time. Evaluate is a pure function over its inputs: it touches no stores and
// has no side effects, so concurrent calls for different zones need no
// locking and identical inputs always produce identical results.
type RuleEngine struct{}

// NewRuleEngine creates a new RuleEngine.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// EvaluationInput carries everything a single evaluation needs.
type EvaluationInput struct {
	Zone        *domain.Zone
	Now         time.Time
	Weather     *domain.Weather // nil when no observation is available
	DemandRatio float64
	Rules       []*domain.PricingRule // snapshot, not live store state
	Events      []*domain.DemandEvent // events in progress at Now
}

// EvaluationResult is the outcome of one evaluation.
type EvaluationResult struct {
	Multiplier float64
	// Source is the winning rule's ID, or domain.SampleSourceBaseline when no
	// rule matched.
	Source string
}

// Evaluate filters the rule snapshot down to the rules matching the zone at
// Now and combines them max-wins: the single most aggressive applicable rule
// governs, multipliers never stack. The result is clamped to
// [1.0, zone.MaxMultiplier].
func (e *RuleEngine) Evaluate(in EvaluationInput) EvaluationResult {
	best := EvaluationResult{
		Multiplier: 1.0,
		Source:     domain.SampleSourceBaseline,
	}

	for _, rule := range in.Rules {
		if !e.matches(rule, in) {
			continue
		}
		if m := rule.EffectiveMultiplier(); m > best.Multiplier {
			best.Multiplier = m
			best.Source = rule.ID
		}
	}

	clamped := in.Zone.ClampMultiplier(best.Multiplier)
	if clamped <= 1.0 && best.Multiplier > 1.0 {
		// Clamping all the way down to baseline can only happen with a
		// degenerate zone cap; keep the source honest.
		best.Source = domain.SampleSourceBaseline
	}
	best.Multiplier = clamped

	return best
}

// matches reports whether a single rule applies to the zone at Now.
func (e *RuleEngine) matches(rule *domain.PricingRule, in EvaluationInput) bool {
	if !rule.Active || !rule.AppliesToZone(in.Zone.ID) {
		return false
	}

	// A rule may demand a minimum demand ratio regardless of its type.
	if rule.MinQualifyingRatio > 0 && in.DemandRatio < rule.MinQualifyingRatio {
		return false
	}

	switch rule.Type {
	case domain.RuleTimeBased:
		return rule.MatchesWeekday(in.Now.Weekday()) &&
			rule.MatchesTimeOfDay(domain.MinuteOfDay(in.Now))

	case domain.RuleWeatherBased:
		if in.Weather == nil {
			return false
		}
		if !rule.MatchesCondition(in.Weather.Condition) {
			return false
		}
		return rule.TempThreshold == nil || in.Weather.TemperatureC >= *rule.TempThreshold

	case domain.RuleDemandBased:
		return in.DemandRatio >= rule.MinDemandRatio

	case domain.RuleCulturalEvent:
		return e.matchesEvent(rule, in)
	}

	return false
}

func (e *RuleEngine) matchesEvent(rule *domain.PricingRule, in EvaluationInput) bool {
	for _, event := range in.Events {
		if !event.InProgress(in.Now) || !event.AppliesToZone(in.Zone.ID) {
			continue
		}
		if len(rule.EventIDs) == 0 {
			return true
		}
		for _, id := range rule.EventIDs {
			if id == event.ID {
				return true
			}
		}
	}
	return false
}
