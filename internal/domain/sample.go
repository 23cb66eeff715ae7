package domain

import "time"

// Price sample sources. A sample produced by automatic evaluation records the
// winning rule's ID instead of one of these markers.
const (
	SampleSourceBaseline     = "baseline"      // no rule matched, no override
	SampleSourceOverride     = "override"      // manual override was authoritative
	SampleSourceStaleWeather = "stale-weather" // weather fetch failed, last-known condition used
)

// PriceSample is one observation of a zone's computed price. Samples are
// append-only and immutable once written; they are the sole input to
// analytics aggregation.
type PriceSample struct {
	ID          string
	ZoneID      string
	Timestamp   time.Time
	Multiplier  float64
	Price       float64
	DemandLevel DemandLevel
	DemandRatio float64
	Source      string
}

// Surge reports whether the sample was taken above baseline pricing.
func (s *PriceSample) Surge() bool {
	return s.Multiplier > 1.0
}
