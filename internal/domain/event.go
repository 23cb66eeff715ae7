package domain

import "time"

// DemandEvent is a scheduled demand spike (concert, festival, sports game).
// Events are read-only reference data consumed by cultural_event rules.
type DemandEvent struct {
	ID             string
	Name           string
	ZoneIDs        []string // empty means city-wide
	StartsAt       time.Time
	EndsAt         time.Time
	ExpectedDemand DemandLevel
	CreatedAt      time.Time
}

// InProgress reports whether the event covers now ([StartsAt, EndsAt)).
func (e *DemandEvent) InProgress(now time.Time) bool {
	return !now.Before(e.StartsAt) && now.Before(e.EndsAt)
}

// AppliesToZone reports whether the event is in scope for the given zone.
func (e *DemandEvent) AppliesToZone(zoneID string) bool {
	if len(e.ZoneIDs) == 0 {
		return true
	}
	for _, id := range e.ZoneIDs {
		if id == zoneID {
			return true
		}
	}
	return false
}
