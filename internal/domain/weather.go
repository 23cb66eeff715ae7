package domain

import "time"

// WeatherCondition is the coarse condition bucket reported by the weather feed.
type WeatherCondition string

const (
	WeatherClear  WeatherCondition = "clear"
	WeatherCloudy WeatherCondition = "cloudy"
	WeatherRain   WeatherCondition = "rain"
	WeatherSnow   WeatherCondition = "snow"
	WeatherFog    WeatherCondition = "fog"
	WeatherHot    WeatherCondition = "hot"
	WeatherStorm  WeatherCondition = "storm"
)

// ValidWeatherCondition reports whether c is a known condition bucket.
func ValidWeatherCondition(c WeatherCondition) bool {
	switch c {
	case WeatherClear, WeatherCloudy, WeatherRain, WeatherSnow,
		WeatherFog, WeatherHot, WeatherStorm:
		return true
	}
	return false
}

// Weather is a point-in-time observation for one zone.
type Weather struct {
	ZoneID       string
	TemperatureC float64
	Condition    WeatherCondition
	ObservedAt   time.Time
}
