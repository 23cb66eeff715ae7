package tests

import (
	"testing"
	"time"

	"scooter/internal/service"
)

var overrideNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func TestOverride_RejectsMultiplierBelowOne(t *testing.T) {
	overrides := service.NewOverrideManager(nil)

	_, err := overrides.Set(service.SetOverrideRequest{
		ZoneID:     "downtown",
		Multiplier: 0.8,
		Duration:   30 * time.Minute,
	}, overrideNow)

	if err != service.ErrInvalidOverrideMultiplier {
		t.Errorf("expected ErrInvalidOverrideMultiplier, got %v", err)
	}
}

func TestOverride_RejectsNonPositiveDuration(t *testing.T) {
	overrides := service.NewOverrideManager(nil)

	testCases := []struct {
		name     string
		duration time.Duration
	}{
		{"zero", 0},
		{"negative", -time.Minute},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := overrides.Set(service.SetOverrideRequest{
				ZoneID:     "downtown",
				Multiplier: 1.5,
				Duration:   tc.duration,
			}, overrideNow)

			if err != service.ErrInvalidOverrideDuration {
				t.Errorf("expected ErrInvalidOverrideDuration, got %v", err)
			}
		})
	}
}

func TestOverride_AuthoritativeUntilExpiryBoundary(t *testing.T) {
	overrides := service.NewOverrideManager(nil)

	_, err := overrides.Set(service.SetOverrideRequest{
		ZoneID:     "downtown",
		Multiplier: 2.0,
		Duration:   60 * time.Minute,
		IssuedBy:   "ops-1",
	}, overrideNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if overrides.Current("downtown", overrideNow.Add(30*time.Minute)) == nil {
		t.Error("expected the override to be active halfway through its window")
	}
	if overrides.Current("downtown", overrideNow.Add(59*time.Minute+59*time.Second)) == nil {
		t.Error("expected the override to be active just before expiry")
	}
	if overrides.Current("downtown", overrideNow.Add(60*time.Minute)) != nil {
		t.Error("expected the override to be gone exactly at expiry")
	}
}

func TestOverride_ReplacementDoesNotStack(t *testing.T) {
	overrides := service.NewOverrideManager(nil)

	if _, err := overrides.Set(service.SetOverrideRequest{
		ZoneID:     "downtown",
		Multiplier: 1.5,
		Duration:   60 * time.Minute,
	}, overrideNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := overrides.Set(service.SetOverrideRequest{
		ZoneID:     "downtown",
		Multiplier: 2.0,
		Duration:   30 * time.Minute,
	}, overrideNow.Add(10*time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current := overrides.Current("downtown", overrideNow.Add(15*time.Minute))
	if current == nil {
		t.Fatal("expected an active override")
	}
	if current.Multiplier != 2.0 {
		t.Errorf("expected the replacement to govern alone, got multiplier %f", current.Multiplier)
	}
	if overrides.ActiveCount(overrideNow.Add(15*time.Minute)) != 1 {
		t.Errorf("expected exactly one override per zone, got %d", overrides.ActiveCount(overrideNow.Add(15*time.Minute)))
	}

	// The replacement's own clock governs expiry: 10m + 30m = 40m.
	if overrides.Current("downtown", overrideNow.Add(45*time.Minute)) != nil {
		t.Error("expected the replacement to expire on its own schedule")
	}
}

func TestOverride_ClearRemovesImmediately(t *testing.T) {
	overrides := service.NewOverrideManager(nil)

	if _, err := overrides.Set(service.SetOverrideRequest{
		ZoneID:     "downtown",
		Multiplier: 2.0,
		Duration:   60 * time.Minute,
	}, overrideNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := overrides.Clear("downtown", overrideNow.Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error clearing: %v", err)
	}
	if overrides.Current("downtown", overrideNow.Add(2*time.Minute)) != nil {
		t.Error("expected no override after clear")
	}
}

func TestOverride_ClearWithoutActiveOverrideFails(t *testing.T) {
	overrides := service.NewOverrideManager(nil)

	if err := overrides.Clear("downtown", overrideNow); err != service.ErrNoActiveOverride {
		t.Errorf("expected ErrNoActiveOverride, got %v", err)
	}

	// Clearing a zone whose only override already lapsed reports the same.
	if _, err := overrides.Set(service.SetOverrideRequest{
		ZoneID:     "downtown",
		Multiplier: 1.5,
		Duration:   time.Minute,
	}, overrideNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := overrides.Clear("downtown", overrideNow.Add(2*time.Minute)); err != service.ErrNoActiveOverride {
		t.Errorf("expected ErrNoActiveOverride for expired override, got %v", err)
	}
}

func TestOverride_SweepClearsOnlyExpired(t *testing.T) {
	overrides := service.NewOverrideManager(nil)

	if _, err := overrides.Set(service.SetOverrideRequest{
		ZoneID:     "downtown",
		Multiplier: 1.5,
		Duration:   10 * time.Minute,
	}, overrideNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := overrides.Set(service.SetOverrideRequest{
		ZoneID:     "marina",
		Multiplier: 2.0,
		Duration:   2 * time.Hour,
	}, overrideNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cleared := overrides.Sweep(overrideNow.Add(30 * time.Minute))
	if cleared != 1 {
		t.Errorf("expected 1 override swept, got %d", cleared)
	}
	if overrides.Current("marina", overrideNow.Add(30*time.Minute)) == nil {
		t.Error("expected the unexpired override to survive the sweep")
	}
}
