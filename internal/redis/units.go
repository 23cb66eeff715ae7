package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	unitLocationKey = "units:locations"
	activeRidesKey  = "rides:active"
)

// UnitStore tracks deployed scooter positions in a Redis GEO index. The
// orchestrator counts units inside a zone's radius to derive supply for the
// demand/supply ratio.
type UnitStore struct {
	client *redis.Client
}

// NewUnitStore creates a new UnitStore.
func NewUnitStore(client *redis.Client) *UnitStore {
	return &UnitStore{client: client}
}

// UpdateUnitLocation stores a unit's position using GEOADD.
func (s *UnitStore) UpdateUnitLocation(ctx context.Context, unitID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, unitLocationKey, &redis.GeoLocation{
		Name:      unitID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// CountUnitsNear returns the number of units within the given radius (km).
func (s *UnitStore) CountUnitsNear(ctx context.Context, lat, lng, radiusKm float64) (int, error) {
	results, err := s.client.GeoRadius(ctx, unitLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius: radiusKm,
		Unit:   "km",
	}).Result()
	if err != nil {
		return 0, err
	}
	return len(results), nil
}

// RemoveUnit removes a unit's position from the geo index.
func (s *UnitStore) RemoveUnit(ctx context.Context, unitID string) error {
	return s.client.ZRem(ctx, unitLocationKey, unitID).Err()
}

// SetActiveRides stores the booking subsystem's current ride count for a zone.
func (s *UnitStore) SetActiveRides(ctx context.Context, zoneID string, count int) error {
	return s.client.HSet(ctx, activeRidesKey, zoneID, count).Err()
}

// GetActiveRides returns the last reported ride count for a zone.
// Returns (0, nil) when the zone has never reported.
func (s *UnitStore) GetActiveRides(ctx context.Context, zoneID string) (int, error) {
	count, err := s.client.HGet(ctx, activeRidesKey, zoneID).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
