package redis

import (
	"context"
	"time"

	"scooter/internal/domain"
)

// WeatherCacheInterface defines the last-known weather cache used for stale
// fallback when the live feed is unavailable.
type WeatherCacheInterface interface {
	SetZoneWeather(ctx context.Context, w *domain.Weather) error
	GetZoneWeather(ctx context.Context, zoneID string) (*domain.Weather, error)
}

// UnitStoreInterface defines the geo index of deployed scooter units and the
// active-ride gauge reported by the booking subsystem.
type UnitStoreInterface interface {
	UpdateUnitLocation(ctx context.Context, unitID string, lat, lng float64) error
	CountUnitsNear(ctx context.Context, lat, lng, radiusKm float64) (int, error)
	RemoveUnit(ctx context.Context, unitID string) error
	SetActiveRides(ctx context.Context, zoneID string, count int) error
	GetActiveRides(ctx context.Context, zoneID string) (int, error)
}

// LockStoreInterface defines distributed tick locking so that overlapping
// recomputations of the same zone never race.
type LockStoreInterface interface {
	AcquireZoneTick(ctx context.Context, zoneID string, ttl time.Duration) (bool, error)
	ReleaseZoneTick(ctx context.Context, zoneID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ WeatherCacheInterface = (*WeatherCache)(nil)
	_ UnitStoreInterface    = (*UnitStore)(nil)
	_ LockStoreInterface    = (*LockStore)(nil)
)
