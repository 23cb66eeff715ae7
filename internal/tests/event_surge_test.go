package tests

import (
	"context"
	"testing"
	"time"

	"scooter/internal/domain"
)

func TestTick_EventRuleFiresWhileEventInProgress(t *testing.T) {
	f := newTickFixture(tickNow, nil)
	f.addDowntown()
	f.setClearWeather(tickNow)

	f.eventRepo.AddEvent(&domain.DemandEvent{
		ID:       "event-concert",
		Name:     "Stadium concert",
		ZoneIDs:  []string{"downtown"},
		StartsAt: tickNow.Add(-time.Hour),
		EndsAt:   tickNow.Add(2 * time.Hour),
	})
	f.ruleRepo.AddRule(&domain.PricingRule{
		ID:            "rule-event",
		Name:          "Event surge",
		Type:          domain.RuleCulturalEvent,
		Active:        true,
		EventIDs:      []string{"event-concert"},
		Multiplier:    1.6,
		MaxMultiplier: 2.0,
	})

	f.orch.Tick(context.Background())

	zone := f.zoneRepo.GetZone("downtown")
	if zone.Multiplier != 1.6 {
		t.Errorf("expected multiplier 1.6 during the event, got %f", zone.Multiplier)
	}

	sample := f.sampleRepo.LastSampleForZone("downtown")
	if sample == nil {
		t.Fatal("expected a price sample")
	}
	if sample.Source != "rule-event" {
		t.Errorf("expected source rule-event, got %q", sample.Source)
	}
}

func TestTick_EventRuleIgnoresEndedEvent(t *testing.T) {
	f := newTickFixture(tickNow, nil)
	f.addDowntown()
	f.setClearWeather(tickNow)

	f.eventRepo.AddEvent(&domain.DemandEvent{
		ID:       "event-concert",
		Name:     "Stadium concert",
		ZoneIDs:  []string{"downtown"},
		StartsAt: tickNow.Add(-3 * time.Hour),
		EndsAt:   tickNow.Add(-time.Hour),
	})
	f.ruleRepo.AddRule(&domain.PricingRule{
		ID:            "rule-event",
		Name:          "Event surge",
		Type:          domain.RuleCulturalEvent,
		Active:        true,
		EventIDs:      []string{"event-concert"},
		Multiplier:    1.6,
		MaxMultiplier: 2.0,
	})

	f.orch.Tick(context.Background())

	zone := f.zoneRepo.GetZone("downtown")
	if zone.Multiplier != 1.0 {
		t.Errorf("expected baseline after the event ended, got %f", zone.Multiplier)
	}
}

func TestTick_EventRuleIgnoresOutOfScopeEvent(t *testing.T) {
	f := newTickFixture(tickNow, nil)
	f.addDowntown()
	f.setClearWeather(tickNow)

	// In progress, but scoped to a different zone.
	f.eventRepo.AddEvent(&domain.DemandEvent{
		ID:       "event-regatta",
		Name:     "Marina regatta",
		ZoneIDs:  []string{"marina"},
		StartsAt: tickNow.Add(-time.Hour),
		EndsAt:   tickNow.Add(2 * time.Hour),
	})
	f.ruleRepo.AddRule(&domain.PricingRule{
		ID:            "rule-event",
		Name:          "Event surge",
		Type:          domain.RuleCulturalEvent,
		Active:        true,
		Multiplier:    1.6,
		MaxMultiplier: 2.0,
	})

	f.orch.Tick(context.Background())

	zone := f.zoneRepo.GetZone("downtown")
	if zone.Multiplier != 1.0 {
		t.Errorf("expected baseline for an out-of-scope event, got %f", zone.Multiplier)
	}
}

func TestTick_CityWideEventCoversAllZones(t *testing.T) {
	f := newTickFixture(tickNow, nil)
	f.addDowntown()
	f.setClearWeather(tickNow)

	// Empty zone list means city-wide.
	f.eventRepo.AddEvent(&domain.DemandEvent{
		ID:       "event-marathon",
		Name:     "City marathon",
		StartsAt: tickNow.Add(-time.Hour),
		EndsAt:   tickNow.Add(4 * time.Hour),
	})
	f.ruleRepo.AddRule(&domain.PricingRule{
		ID:            "rule-event",
		Name:          "Event surge",
		Type:          domain.RuleCulturalEvent,
		Active:        true,
		Multiplier:    1.5,
		MaxMultiplier: 2.0,
	})

	f.orch.Tick(context.Background())

	zone := f.zoneRepo.GetZone("downtown")
	if zone.Multiplier != 1.5 {
		t.Errorf("expected the city-wide event to cover the zone, got %f", zone.Multiplier)
	}
}
