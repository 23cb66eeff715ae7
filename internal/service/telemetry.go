package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"scooter/internal/domain"
	internalRedis "scooter/internal/redis"
)

// DemandTelemetry is the collaborator reporting live fleet load per zone.
// Sourced from the booking and fleet subsystems; the engine only reads it.
type DemandTelemetry interface {
	ActiveRides(ctx context.Context, zone *domain.Zone) (int, error)
	AvailableUnits(ctx context.Context, zone *domain.Zone) (int, error)
}

// FleetTelemetry derives demand telemetry from the unit geo index and the
// per-zone ride gauge. Failures report ErrUpstreamUnavailable; callers
// degrade rather than abort.
type FleetTelemetry struct {
	units  internalRedis.UnitStoreInterface
	logger *zap.Logger
}

// NewFleetTelemetry creates a new FleetTelemetry.
func NewFleetTelemetry(units internalRedis.UnitStoreInterface, logger *zap.Logger) *FleetTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FleetTelemetry{units: units, logger: logger}
}

// AvailableUnits counts deployed units inside the zone's radius.
func (t *FleetTelemetry) AvailableUnits(ctx context.Context, zone *domain.Zone) (int, error) {
	count, err := t.units.CountUnitsNear(ctx, zone.CenterLat, zone.CenterLng, zone.RadiusKm)
	if err != nil {
		t.logger.Warn("unit geo index unavailable",
			zap.String("zone_id", zone.ID),
			zap.Error(err),
		)
		return 0, ErrUpstreamUnavailable
	}
	return count, nil
}

// ActiveRides reads the ride gauge the booking subsystem reports per zone.
// When the gauge is unreachable the zone's last stored count carries forward.
func (t *FleetTelemetry) ActiveRides(ctx context.Context, zone *domain.Zone) (int, error) {
	count, err := t.units.GetActiveRides(ctx, zone.ID)
	if err != nil {
		t.logger.Warn("active ride gauge unavailable",
			zap.String("zone_id", zone.ID),
			zap.Error(err),
		)
		return zone.ActiveRides, ErrUpstreamUnavailable
	}
	return count, nil
}

// DemandRatio computes rides-per-unit with the divide-by-zero guard the
// pricing contract requires.
func DemandRatio(activeRides, availableUnits int) float64 {
	if availableUnits < 1 {
		availableUnits = 1
	}
	return float64(activeRides) / float64(availableUnits)
}

// staleObservationCutoff bounds how old a cached weather observation may be
// before ticks treat the zone as having no weather at all.
const staleObservationCutoff = 3 * time.Hour

// ObservationUsable reports whether an observation is recent enough to price on.
func ObservationUsable(w *domain.Weather, now time.Time) bool {
	if w == nil {
		return false
	}
	return now.Sub(w.ObservedAt) <= staleObservationCutoff
}
