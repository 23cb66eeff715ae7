package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scooter/internal/domain"
)

type fakeWeatherFeed struct {
	weather *domain.Weather
	err     error
}

func (f *fakeWeatherFeed) ZoneWeather(ctx context.Context, zoneID string) (*domain.Weather, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.weather, nil
}

type fakeWeatherCache struct {
	entries map[string]*domain.Weather
	setErr  error
	getErr  error
}

func newFakeWeatherCache() *fakeWeatherCache {
	return &fakeWeatherCache{entries: make(map[string]*domain.Weather)}
}

func (f *fakeWeatherCache) SetZoneWeather(ctx context.Context, w *domain.Weather) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[w.ZoneID] = w
	return nil
}

func (f *fakeWeatherCache) GetZoneWeather(ctx context.Context, zoneID string) (*domain.Weather, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[zoneID], nil
}

var weatherNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

var errFeedDown = errors.New("feed down")

func TestWeatherCurrentLiveObservationIsCached(t *testing.T) {
	observation := &domain.Weather{
		ZoneID: "downtown", Condition: domain.WeatherRain,
		TemperatureC: 14.0, ObservedAt: weatherNow,
	}
	cache := newFakeWeatherCache()
	svc := NewWeatherService(&fakeWeatherFeed{weather: observation}, cache, nil)

	got, stale, err := svc.Current(context.Background(), "downtown")
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, observation, got)
	assert.Equal(t, observation, cache.entries["downtown"], "live observations refresh the last-known cache")
}

func TestWeatherCurrentFallsBackToCacheOnOutage(t *testing.T) {
	cached := &domain.Weather{
		ZoneID: "downtown", Condition: domain.WeatherFog,
		TemperatureC: 9.0, ObservedAt: weatherNow.Add(-20 * time.Minute),
	}
	cache := newFakeWeatherCache()
	cache.entries["downtown"] = cached
	svc := NewWeatherService(&fakeWeatherFeed{err: errFeedDown}, cache, nil)

	got, stale, err := svc.Current(context.Background(), "downtown")
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, cached, got)
}

func TestWeatherCurrentDegradesToNoObservation(t *testing.T) {
	svc := NewWeatherService(&fakeWeatherFeed{err: errFeedDown}, newFakeWeatherCache(), nil)

	got, stale, err := svc.Current(context.Background(), "downtown")
	require.NoError(t, err, "a total weather outage is not an error")
	assert.True(t, stale)
	assert.Nil(t, got)
}

func TestWeatherCurrentCacheWriteFailureIsTolerated(t *testing.T) {
	observation := &domain.Weather{
		ZoneID: "downtown", Condition: domain.WeatherClear,
		TemperatureC: 22.0, ObservedAt: weatherNow,
	}
	cache := newFakeWeatherCache()
	cache.setErr = errFeedDown
	svc := NewWeatherService(&fakeWeatherFeed{weather: observation}, cache, nil)

	got, stale, err := svc.Current(context.Background(), "downtown")
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, observation, got)
}

func TestSimulatedFeedIsDeterministicPerZoneAndHour(t *testing.T) {
	clock := func() time.Time { return weatherNow }
	feed := NewSimulatedWeatherFeedAt(clock)

	first, err := feed.ZoneWeather(context.Background(), "downtown")
	require.NoError(t, err)
	second, err := feed.ZoneWeather(context.Background(), "downtown")
	require.NoError(t, err)

	assert.Equal(t, first.Condition, second.Condition)
	assert.Equal(t, first.TemperatureC, second.TemperatureC)

	other, err := feed.ZoneWeather(context.Background(), "marina")
	require.NoError(t, err)
	assert.Equal(t, "marina", other.ZoneID)
	assert.True(t, domain.ValidWeatherCondition(other.Condition))
}

func TestDemandRatioGuardsAgainstZeroUnits(t *testing.T) {
	assert.Equal(t, 3.0, DemandRatio(30, 10))
	assert.Equal(t, 12.0, DemandRatio(12, 0), "zero units divides by one, not zero")
	assert.Equal(t, 0.0, DemandRatio(0, 0))
}

func TestObservationUsableCutoff(t *testing.T) {
	fresh := &domain.Weather{ObservedAt: weatherNow.Add(-time.Hour)}
	assert.True(t, ObservationUsable(fresh, weatherNow))

	boundary := &domain.Weather{ObservedAt: weatherNow.Add(-3 * time.Hour)}
	assert.True(t, ObservationUsable(boundary, weatherNow))

	ancient := &domain.Weather{ObservedAt: weatherNow.Add(-4 * time.Hour)}
	assert.False(t, ObservationUsable(ancient, weatherNow))

	assert.False(t, ObservationUsable(nil, weatherNow))
}
