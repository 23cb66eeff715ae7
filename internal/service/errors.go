package service

import "errors"

var (
	// ErrZoneNotFound is returned when a referenced zone does not exist.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrZoneInactive is returned when a pricing operation targets a deactivated zone.
	ErrZoneInactive = errors.New("zone is not operational")

	// ErrRuleNotFound is returned when a referenced rule does not exist.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrInvalidRuleDefinition is returned when a rule violates its constraints
	// at create or update time.
	ErrInvalidRuleDefinition = errors.New("invalid rule definition")

	// ErrInvalidOverrideMultiplier is returned when an override multiplier is below 1.0.
	ErrInvalidOverrideMultiplier = errors.New("override multiplier must be at least 1.0")

	// ErrInvalidOverrideDuration is returned when an override duration is not positive.
	ErrInvalidOverrideDuration = errors.New("override duration must be positive")

	// ErrNoActiveOverride is returned when clearing a zone that has no active override.
	ErrNoActiveOverride = errors.New("no active override for zone")

	// ErrUpstreamUnavailable is returned when a weather or telemetry feed cannot
	// be reached. It is absorbed by the orchestrator's degrade path and never
	// surfaces to API callers.
	ErrUpstreamUnavailable = errors.New("upstream feed unavailable")

	// ErrInvalidRange is returned when an analytics range token is unknown.
	ErrInvalidRange = errors.New("invalid analytics range")
)
