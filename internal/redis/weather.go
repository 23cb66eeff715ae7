package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"scooter/internal/domain"
)

// WeatherCacheTTL bounds how long a stale observation may substitute for a
// live one. A zone whose feed has been down longer than this falls back to
// baseline evaluation without weather rules.
const WeatherCacheTTL = 2 * time.Hour

const weatherCachePrefix = "cache:weather:"

// WeatherCache stores the last-known weather observation per zone.
type WeatherCache struct {
	client *redis.Client
}

// NewWeatherCache creates a new WeatherCache.
func NewWeatherCache(client *redis.Client) *WeatherCache {
	return &WeatherCache{client: client}
}

// cachedWeather is the wire form of a cached observation.
type cachedWeather struct {
	ZoneID       string  `json:"zone_id"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
	ObservedAt   int64   `json:"observed_at"` // unix seconds
}

// SetZoneWeather stores the observation for a zone, replacing any prior one.
func (s *WeatherCache) SetZoneWeather(ctx context.Context, w *domain.Weather) error {
	data, err := json.Marshal(cachedWeather{
		ZoneID:       w.ZoneID,
		TemperatureC: w.TemperatureC,
		Condition:    string(w.Condition),
		ObservedAt:   w.ObservedAt.Unix(),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, weatherCachePrefix+w.ZoneID, data, WeatherCacheTTL).Err()
}

// GetZoneWeather retrieves the last-known observation for a zone.
// Returns (nil, nil) on cache miss.
func (s *WeatherCache) GetZoneWeather(ctx context.Context, zoneID string) (*domain.Weather, error) {
	data, err := s.client.Get(ctx, weatherCachePrefix+zoneID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached cachedWeather
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &domain.Weather{
		ZoneID:       cached.ZoneID,
		TemperatureC: cached.TemperatureC,
		Condition:    domain.WeatherCondition(cached.Condition),
		ObservedAt:   time.Unix(cached.ObservedAt, 0),
	}, nil
}
