package tests

import (
	"context"
	"testing"

	"scooter/internal/domain"
	"scooter/internal/repository"
	"scooter/internal/service"
)

func TestRuleCreation_RoundTrip(t *testing.T) {
	ruleRepo := NewMockRuleRepository()
	ruleService := service.NewRuleService(ruleRepo)

	created, err := ruleService.Create(context.Background(), service.CreateRuleRequest{
		Name:          "Morning commute",
		Type:          domain.RuleTimeBased,
		Active:        true,
		ZoneIDs:       []string{"downtown"},
		StartMinute:   7 * 60,
		EndMinute:     10 * 60,
		Multiplier:    1.4,
		MaxMultiplier: 2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated rule ID")
	}

	fetched, err := ruleService.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching rule: %v", err)
	}
	if fetched.Name != "Morning commute" || fetched.Multiplier != 1.4 {
		t.Errorf("fetched rule does not match created rule: %+v", fetched)
	}
}

func TestRuleCreation_RejectsInvalidDefinitions(t *testing.T) {
	ruleRepo := NewMockRuleRepository()
	ruleService := service.NewRuleService(ruleRepo)

	testCases := []struct {
		name string
		req  service.CreateRuleRequest
	}{
		{
			"empty name",
			service.CreateRuleRequest{Type: domain.RuleTimeBased, Multiplier: 1.4, MaxMultiplier: 2.0},
		},
		{
			"unknown type",
			service.CreateRuleRequest{Name: "x", Type: "lunar_phase", Multiplier: 1.4, MaxMultiplier: 2.0},
		},
		{
			"multiplier below 1.0",
			service.CreateRuleRequest{Name: "x", Type: domain.RuleTimeBased, Multiplier: 0.9, MaxMultiplier: 2.0},
		},
		{
			"multiplier above its own cap",
			service.CreateRuleRequest{Name: "x", Type: domain.RuleTimeBased, Multiplier: 2.5, MaxMultiplier: 2.0},
		},
		{
			"demand rule without threshold",
			service.CreateRuleRequest{Name: "x", Type: domain.RuleDemandBased, Multiplier: 1.4, MaxMultiplier: 2.0},
		},
		{
			"weather rule without conditions",
			service.CreateRuleRequest{Name: "x", Type: domain.RuleWeatherBased, Multiplier: 1.4, MaxMultiplier: 2.0},
		},
		{
			"unknown weather condition",
			service.CreateRuleRequest{
				Name: "x", Type: domain.RuleWeatherBased, Multiplier: 1.4, MaxMultiplier: 2.0,
				Conditions: []domain.WeatherCondition{"hail"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ruleService.Create(context.Background(), tc.req)
			if err != service.ErrInvalidRuleDefinition {
				t.Errorf("expected ErrInvalidRuleDefinition, got %v", err)
			}
		})
	}

	if ruleRepo.CountRules() != 0 {
		t.Errorf("expected no rules persisted, got %d", ruleRepo.CountRules())
	}
}

func TestRuleUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	ruleRepo := NewMockRuleRepository()
	ruleService := service.NewRuleService(ruleRepo)

	created, err := ruleService.Create(context.Background(), service.CreateRuleRequest{
		Name:          "Morning commute",
		Type:          domain.RuleTimeBased,
		Active:        true,
		StartMinute:   7 * 60,
		EndMinute:     10 * 60,
		Multiplier:    1.4,
		MaxMultiplier: 2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newMultiplier := 1.6
	updated, err := ruleService.Update(context.Background(), created.ID, service.UpdateRuleRequest{
		Multiplier: &newMultiplier,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Multiplier != 1.6 {
		t.Errorf("expected multiplier 1.6, got %f", updated.Multiplier)
	}
	if updated.Name != "Morning commute" || updated.StartMinute != 7*60 {
		t.Errorf("expected untouched fields to survive the patch: %+v", updated)
	}
}

func TestRuleUpdate_RevalidatesPatchedRule(t *testing.T) {
	ruleRepo := NewMockRuleRepository()
	ruleService := service.NewRuleService(ruleRepo)

	created, err := ruleService.Create(context.Background(), service.CreateRuleRequest{
		Name:          "Morning commute",
		Type:          domain.RuleTimeBased,
		Active:        true,
		Multiplier:    1.4,
		MaxMultiplier: 2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := 0.5
	_, err = ruleService.Update(context.Background(), created.ID, service.UpdateRuleRequest{
		Multiplier: &bad,
	})
	if err != service.ErrInvalidRuleDefinition {
		t.Errorf("expected ErrInvalidRuleDefinition, got %v", err)
	}

	// The stored rule is untouched by the rejected patch.
	stored, err := ruleService.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Multiplier != 1.4 {
		t.Errorf("expected stored multiplier to remain 1.4, got %f", stored.Multiplier)
	}
}

func TestRuleDeletion_RemovesFromFutureSnapshots(t *testing.T) {
	ruleRepo := NewMockRuleRepository()
	ruleService := service.NewRuleService(ruleRepo)

	created, err := ruleService.Create(context.Background(), service.CreateRuleRequest{
		Name:          "Morning commute",
		Type:          domain.RuleTimeBased,
		Active:        true,
		Multiplier:    1.4,
		MaxMultiplier: 2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ruleService.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error deleting: %v", err)
	}

	snapshot, err := ruleService.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot) != 0 {
		t.Errorf("expected an empty snapshot after deletion, got %d rules", len(snapshot))
	}

	if _, err := ruleService.Get(context.Background(), created.ID); err != service.ErrRuleNotFound {
		t.Errorf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestRuleDeletion_UnknownRuleFails(t *testing.T) {
	ruleService := service.NewRuleService(NewMockRuleRepository())

	if err := ruleService.Delete(context.Background(), "missing"); err != service.ErrRuleNotFound {
		t.Errorf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestRuleSnapshot_ExcludesInactiveRules(t *testing.T) {
	ruleRepo := NewMockRuleRepository()
	ruleService := service.NewRuleService(ruleRepo)

	ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-on", Name: "On", Type: domain.RuleTimeBased,
		Active: true, Multiplier: 1.4, MaxMultiplier: 2.0,
	})
	ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-off", Name: "Off", Type: domain.RuleTimeBased,
		Active: false, Multiplier: 1.4, MaxMultiplier: 2.0,
	})

	snapshot, err := ruleService.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot) != 1 || snapshot[0].ID != "rule-on" {
		t.Errorf("expected only the active rule in the snapshot, got %+v", snapshot)
	}
}

func TestRuleList_FiltersByTypeAndActive(t *testing.T) {
	ruleRepo := NewMockRuleRepository()
	ruleService := service.NewRuleService(ruleRepo)

	ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-time", Name: "Time", Type: domain.RuleTimeBased,
		Active: true, Multiplier: 1.4, MaxMultiplier: 2.0,
	})
	ruleRepo.AddRule(&domain.PricingRule{
		ID: "rule-demand", Name: "Demand", Type: domain.RuleDemandBased,
		Active: false, MinDemandRatio: 2.0, Multiplier: 1.8, MaxMultiplier: 2.0,
	})

	byType, err := ruleService.List(context.Background(), repository.RuleFilter{Type: domain.RuleDemandBased})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byType) != 1 || byType[0].ID != "rule-demand" {
		t.Errorf("expected only the demand rule, got %+v", byType)
	}

	active := true
	byActive, err := ruleService.List(context.Background(), repository.RuleFilter{Active: &active})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byActive) != 1 || byActive[0].ID != "rule-time" {
		t.Errorf("expected only the active rule, got %+v", byActive)
	}
}
