package domain

import "time"

// ManualOverride is an operator-issued surge multiplier for a zone. While an
// override is active, automatic rule evaluation for the zone is suppressed
// entirely; the override's multiplier governs.
type ManualOverride struct {
	ZoneID     string
	Multiplier float64
	Reason     string
	IssuedBy   string
	IssuedAt   time.Time
	Duration   time.Duration
	ExpiresAt  time.Time // IssuedAt + Duration
}

// Expired reports whether the override is no longer authoritative at now.
// The override covers [IssuedAt, ExpiresAt).
func (o *ManualOverride) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// Remaining returns how long the override stays authoritative from now,
// or zero when expired.
func (o *ManualOverride) Remaining(now time.Time) time.Duration {
	if o.Expired(now) {
		return 0
	}
	return o.ExpiresAt.Sub(now)
}
