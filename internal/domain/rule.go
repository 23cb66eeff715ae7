package domain

import (
	"fmt"
	"time"
)

// RuleType represents the kind of condition a pricing rule evaluates.
type RuleType string

const (
	RuleTimeBased     RuleType = "time_based"
	RuleWeatherBased  RuleType = "weather_based"
	RuleDemandBased   RuleType = "demand_based"
	RuleCulturalEvent RuleType = "cultural_event"
)

// ValidRuleType reports whether t is a known rule type.
func ValidRuleType(t RuleType) bool {
	switch t {
	case RuleTimeBased, RuleWeatherBased, RuleDemandBased, RuleCulturalEvent:
		return true
	}
	return false
}

// PricingRule describes one condition under which a zone's multiplier is
// raised, together with its pricing effect.
//
// Condition fields are interpreted by Type:
//   - time_based:     StartMinute/EndMinute (minutes since midnight, [start,end)
//     wrapping past midnight when end < start) and Weekdays.
//   - weather_based:  Conditions and optional TempThreshold (matches when the
//     zone's condition is in the set and, if a threshold is
//     set, temperature >= threshold).
//   - demand_based:   MinDemandRatio (matches when demand/supply >= it).
//   - cultural_event: EventIDs (matches while one of the referenced events is
//     in progress; empty set means any event in zone scope).
type PricingRule struct {
	ID      string
	Name    string
	Type    RuleType
	Active  bool
	ZoneIDs []string // empty means the rule applies to all zones

	StartMinute   int
	EndMinute     int
	Weekdays      []time.Weekday
	Conditions    []WeatherCondition
	TempThreshold *float64
	MinDemandRatio float64
	EventIDs      []string

	Multiplier    float64
	MaxMultiplier float64
	MinQualifyingRatio float64 // demand ratio below which the rule never fires, any type

	RevenueLiftPct      float64
	SatisfactionScore   float64
	UtilizationDeltaPct float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesToZone reports whether the rule is in scope for the given zone.
func (r *PricingRule) AppliesToZone(zoneID string) bool {
	if len(r.ZoneIDs) == 0 {
		return true
	}
	for _, id := range r.ZoneIDs {
		if id == zoneID {
			return true
		}
	}
	return false
}

// EffectiveMultiplier returns the rule's multiplier capped by its own
// MaxMultiplier.
func (r *PricingRule) EffectiveMultiplier() float64 {
	if r.MaxMultiplier >= 1.0 && r.Multiplier > r.MaxMultiplier {
		return r.MaxMultiplier
	}
	return r.Multiplier
}

// MatchesWeekday reports whether wd is in the rule's weekday set.
// An empty set matches every weekday.
func (r *PricingRule) MatchesWeekday(wd time.Weekday) bool {
	if len(r.Weekdays) == 0 {
		return true
	}
	for _, w := range r.Weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// MatchesTimeOfDay reports whether the minute-of-day falls inside
// [StartMinute, EndMinute), wrapping past midnight when EndMinute < StartMinute.
func (r *PricingRule) MatchesTimeOfDay(minute int) bool {
	if r.StartMinute == r.EndMinute {
		// Degenerate range covers the whole day.
		return true
	}
	if r.EndMinute < r.StartMinute {
		return minute >= r.StartMinute || minute < r.EndMinute
	}
	return minute >= r.StartMinute && minute < r.EndMinute
}

// MatchesCondition reports whether c is in the rule's weather condition set.
func (r *PricingRule) MatchesCondition(c WeatherCondition) bool {
	for _, rc := range r.Conditions {
		if rc == c {
			return true
		}
	}
	return false
}

// MinutesPerDay is the number of minutes in a clock day.
const MinutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to a minute-of-day value.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders a minute-of-day value as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// MinuteOfDay returns the minute-of-day for t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
