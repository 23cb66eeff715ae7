package domain

import "time"

// DemandLevel classifies how contested a zone currently is.
type DemandLevel string

const (
	DemandLow      DemandLevel = "low"
	DemandMedium   DemandLevel = "medium"
	DemandHigh     DemandLevel = "high"
	DemandVeryHigh DemandLevel = "very_high"
)

// DemandLevelFor maps a price multiplier to its demand label.
// The mapping is monotonic: a higher multiplier never yields a lower label.
func DemandLevelFor(multiplier float64) DemandLevel {
	switch {
	case multiplier >= 2.0:
		return DemandVeryHigh
	case multiplier >= 1.5:
		return DemandHigh
	case multiplier >= 1.2:
		return DemandMedium
	default:
		return DemandLow
	}
}

// Zone represents a geofenced pricing area for the scooter fleet.
type Zone struct {
	ID             string
	Name           string
	BasePrice      float64 // price per ride at multiplier 1.0
	CenterLat      float64
	CenterLng      float64
	RadiusKm       float64
	Geometry       string // optional polygon payload (GeoJSON), stored as-is
	Multiplier     float64
	CurrentPrice   float64 // always BasePrice * Multiplier
	DemandLevel    DemandLevel
	ActiveRides    int
	AvailableUnits int
	MaxMultiplier  float64 // upper bound for any multiplier in this zone
	Active         bool
	LastComputedAt time.Time
	CreatedAt      time.Time
}

// ClampMultiplier bounds m to [1.0, MaxMultiplier].
func (z *Zone) ClampMultiplier(m float64) float64 {
	if m < 1.0 {
		return 1.0
	}
	if z.MaxMultiplier >= 1.0 && m > z.MaxMultiplier {
		return z.MaxMultiplier
	}
	return m
}

// SetMultiplier applies a clamped multiplier and recomputes the current
// price in the same step. Price and multiplier are never updated
// independently.
func (z *Zone) SetMultiplier(m float64, at time.Time) {
	z.Multiplier = z.ClampMultiplier(m)
	z.CurrentPrice = z.BasePrice * z.Multiplier
	z.DemandLevel = DemandLevelFor(z.Multiplier)
	z.LastComputedAt = at
}
