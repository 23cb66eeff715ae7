package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"scooter/internal/domain"
)

// Monday 08:00 UTC.
var evalNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func evalZone() *domain.Zone {
	return &domain.Zone{
		ID:            "downtown",
		BasePrice:     8.00,
		Multiplier:    1.0,
		MaxMultiplier: 3.0,
		Active:        true,
	}
}

func TestEvaluateEmptyRuleSetReturnsBaseline(t *testing.T) {
	engine := NewRuleEngine()

	result := engine.Evaluate(EvaluationInput{Zone: evalZone(), Now: evalNow})

	assert.Equal(t, 1.0, result.Multiplier)
	assert.Equal(t, domain.SampleSourceBaseline, result.Source)
}

func TestEvaluateMaxWinsAcrossRuleTypes(t *testing.T) {
	engine := NewRuleEngine()

	rules := []*domain.PricingRule{
		{
			ID: "rule-time", Type: domain.RuleTimeBased, Active: true,
			StartMinute: 7 * 60, EndMinute: 10 * 60,
			Multiplier: 1.4, MaxMultiplier: 2.0,
		},
		{
			ID: "rule-demand", Type: domain.RuleDemandBased, Active: true,
			MinDemandRatio: 2.0,
			Multiplier:     1.8, MaxMultiplier: 2.0,
		},
	}

	result := engine.Evaluate(EvaluationInput{
		Zone:        evalZone(),
		Now:         evalNow,
		DemandRatio: 2.5,
		Rules:       rules,
	})

	assert.Equal(t, 1.8, result.Multiplier, "multipliers never stack")
	assert.Equal(t, "rule-demand", result.Source)
}

func TestEvaluateSkipsInactiveAndOutOfScopeRules(t *testing.T) {
	engine := NewRuleEngine()

	rules := []*domain.PricingRule{
		{
			ID: "rule-off", Type: domain.RuleTimeBased, Active: false,
			Multiplier: 2.0, MaxMultiplier: 2.0,
		},
		{
			ID: "rule-elsewhere", Type: domain.RuleTimeBased, Active: true,
			ZoneIDs:    []string{"marina"},
			Multiplier: 2.0, MaxMultiplier: 2.0,
		},
	}

	result := engine.Evaluate(EvaluationInput{Zone: evalZone(), Now: evalNow, Rules: rules})

	assert.Equal(t, 1.0, result.Multiplier)
	assert.Equal(t, domain.SampleSourceBaseline, result.Source)
}

func TestEvaluateWeatherRuleTemperatureThreshold(t *testing.T) {
	engine := NewRuleEngine()
	threshold := 45.0
	rules := []*domain.PricingRule{{
		ID: "rule-hot", Type: domain.RuleWeatherBased, Active: true,
		Conditions:    []domain.WeatherCondition{domain.WeatherHot},
		TempThreshold: &threshold,
		Multiplier:    1.8, MaxMultiplier: 2.0,
	}}

	hot := func(temp float64) EvaluationInput {
		return EvaluationInput{
			Zone: evalZone(), Now: evalNow, Rules: rules,
			Weather: &domain.Weather{
				ZoneID: "downtown", Condition: domain.WeatherHot,
				TemperatureC: temp, ObservedAt: evalNow,
			},
		}
	}

	assert.Equal(t, 1.8, engine.Evaluate(hot(47.0)).Multiplier)
	assert.Equal(t, 1.8, engine.Evaluate(hot(45.0)).Multiplier, "threshold is inclusive")
	assert.Equal(t, 1.0, engine.Evaluate(hot(44.9)).Multiplier)
}

func TestEvaluateWeatherRuleNeedsObservation(t *testing.T) {
	engine := NewRuleEngine()
	rules := []*domain.PricingRule{{
		ID: "rule-rain", Type: domain.RuleWeatherBased, Active: true,
		Conditions: []domain.WeatherCondition{domain.WeatherRain},
		Multiplier: 1.5, MaxMultiplier: 2.0,
	}}

	result := engine.Evaluate(EvaluationInput{
		Zone: evalZone(), Now: evalNow, Rules: rules, Weather: nil,
	})

	assert.Equal(t, 1.0, result.Multiplier, "no observation, no weather surge")
}

func TestEvaluateDemandRuleThresholdInclusive(t *testing.T) {
	engine := NewRuleEngine()
	rules := []*domain.PricingRule{{
		ID: "rule-demand", Type: domain.RuleDemandBased, Active: true,
		MinDemandRatio: 2.0,
		Multiplier:     1.8, MaxMultiplier: 2.0,
	}}

	at := func(ratio float64) float64 {
		return engine.Evaluate(EvaluationInput{
			Zone: evalZone(), Now: evalNow, Rules: rules, DemandRatio: ratio,
		}).Multiplier
	}

	assert.Equal(t, 1.0, at(1.99))
	assert.Equal(t, 1.8, at(2.0))
	assert.Equal(t, 1.8, at(4.0))
}

func TestEvaluateMinQualifyingRatioGatesAnyType(t *testing.T) {
	engine := NewRuleEngine()
	rules := []*domain.PricingRule{{
		ID: "rule-time", Type: domain.RuleTimeBased, Active: true,
		StartMinute: 7 * 60, EndMinute: 10 * 60,
		MinQualifyingRatio: 1.5,
		Multiplier:         1.4, MaxMultiplier: 2.0,
	}}

	quiet := engine.Evaluate(EvaluationInput{
		Zone: evalZone(), Now: evalNow, Rules: rules, DemandRatio: 0.5,
	})
	assert.Equal(t, 1.0, quiet.Multiplier, "time window alone is not enough below the gate")

	busy := engine.Evaluate(EvaluationInput{
		Zone: evalZone(), Now: evalNow, Rules: rules, DemandRatio: 1.5,
	})
	assert.Equal(t, 1.4, busy.Multiplier)
}

func TestEvaluateClampsToZoneCap(t *testing.T) {
	engine := NewRuleEngine()
	rules := []*domain.PricingRule{{
		ID: "rule-big", Type: domain.RuleTimeBased, Active: true,
		Multiplier: 5.0, MaxMultiplier: 5.0,
	}}

	result := engine.Evaluate(EvaluationInput{Zone: evalZone(), Now: evalNow, Rules: rules})

	assert.Equal(t, 3.0, result.Multiplier)
	assert.Equal(t, "rule-big", result.Source, "the winning rule stays attributed after a partial clamp")
}

func TestEvaluateTimeRuleRespectsWeekdays(t *testing.T) {
	engine := NewRuleEngine()
	rules := []*domain.PricingRule{{
		ID: "rule-weekday", Type: domain.RuleTimeBased, Active: true,
		StartMinute: 7 * 60, EndMinute: 10 * 60,
		Weekdays:   []time.Weekday{time.Monday, time.Friday},
		Multiplier: 1.4, MaxMultiplier: 2.0,
	}}

	monday := engine.Evaluate(EvaluationInput{Zone: evalZone(), Now: evalNow, Rules: rules})
	assert.Equal(t, 1.4, monday.Multiplier)

	sunday := evalNow.AddDate(0, 0, -1)
	offDay := engine.Evaluate(EvaluationInput{Zone: evalZone(), Now: sunday, Rules: rules})
	assert.Equal(t, 1.0, offDay.Multiplier)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	engine := NewRuleEngine()
	rules := []*domain.PricingRule{
		{
			ID: "rule-time", Type: domain.RuleTimeBased, Active: true,
			StartMinute: 7 * 60, EndMinute: 10 * 60,
			Multiplier: 1.4, MaxMultiplier: 2.0,
		},
		{
			ID: "rule-demand", Type: domain.RuleDemandBased, Active: true,
			MinDemandRatio: 1.0,
			Multiplier:     1.3, MaxMultiplier: 2.0,
		},
	}
	in := EvaluationInput{Zone: evalZone(), Now: evalNow, DemandRatio: 1.2, Rules: rules}

	first := engine.Evaluate(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, engine.Evaluate(in))
	}
}
