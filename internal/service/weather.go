package service

import (
	"context"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"scooter/internal/domain"
	internalRedis "scooter/internal/redis"
)

// WeatherFeed is the read-only collaborator providing current weather per
// zone. The engine consumes it and must tolerate it being unavailable.
type WeatherFeed interface {
	ZoneWeather(ctx context.Context, zoneID string) (*domain.Weather, error)
}

// WeatherService wraps a feed with a last-known cache. When the live fetch
// fails, the most recent cached observation substitutes and the result is
// marked stale; pricing degrades instead of stalling.
type WeatherService struct {
	feed   WeatherFeed
	cache  internalRedis.WeatherCacheInterface
	logger *zap.Logger
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(feed WeatherFeed, cache internalRedis.WeatherCacheInterface, logger *zap.Logger) *WeatherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherService{feed: feed, cache: cache, logger: logger}
}

// Current returns the zone's weather and whether it came from the stale
// fallback. When both the feed and the cache fail, it returns (nil, true,
// nil): evaluation proceeds without weather rules.
func (s *WeatherService) Current(ctx context.Context, zoneID string) (*domain.Weather, bool, error) {
	weather, err := s.feed.ZoneWeather(ctx, zoneID)
	if err == nil && weather != nil {
		if s.cache != nil {
			if cacheErr := s.cache.SetZoneWeather(ctx, weather); cacheErr != nil {
				s.logger.Warn("failed to cache weather observation",
					zap.String("zone_id", zoneID),
					zap.Error(cacheErr),
				)
			}
		}
		return weather, false, nil
	}

	s.logger.Warn("weather feed unavailable, falling back to last-known",
		zap.String("zone_id", zoneID),
		zap.Error(err),
	)

	if s.cache != nil {
		cached, cacheErr := s.cache.GetZoneWeather(ctx, zoneID)
		if cacheErr == nil && cached != nil {
			return cached, true, nil
		}
	}

	// No live observation and nothing cached: degrade to weather-less
	// evaluation rather than failing the tick.
	return nil, true, nil
}

// SimulatedWeatherFeed is a deterministic stand-in for a real weather
// provider. The same zone and hour always produce the same observation, which
// keeps pricing reproducible in development and in tests.
type SimulatedWeatherFeed struct {
	clock func() time.Time
}

// NewSimulatedWeatherFeed creates a feed using the real clock.
func NewSimulatedWeatherFeed() *SimulatedWeatherFeed {
	return &SimulatedWeatherFeed{clock: time.Now}
}

// NewSimulatedWeatherFeedAt creates a feed with an injected clock.
func NewSimulatedWeatherFeedAt(clock func() time.Time) *SimulatedWeatherFeed {
	return &SimulatedWeatherFeed{clock: clock}
}

var simulatedConditions = []domain.WeatherCondition{
	domain.WeatherClear,
	domain.WeatherCloudy,
	domain.WeatherRain,
	domain.WeatherHot,
	domain.WeatherFog,
}

// ZoneWeather derives a condition and temperature from the zone ID and the
// current hour.
func (f *SimulatedWeatherFeed) ZoneWeather(_ context.Context, zoneID string) (*domain.Weather, error) {
	now := f.clock()

	h := fnv.New32a()
	h.Write([]byte(zoneID))
	seed := h.Sum32() + uint32(now.Hour())

	condition := simulatedConditions[int(seed)%len(simulatedConditions)]
	temperature := 15.0 + float64(int(seed)%25) // 15..39 C
	if condition == domain.WeatherHot {
		temperature += 12 // push hot zones past typical thresholds
	}

	return &domain.Weather{
		ZoneID:       zoneID,
		TemperatureC: temperature,
		Condition:    condition,
		ObservedAt:   now,
	}, nil
}
