// Package forecast provides per-day weather forecasts for itinerary
// optimization, with provider abstraction and caching. The optimizer core
// consumes already-resolved DayForecast values; all fetching and caching
// lives here.
package forecast

import (
	"errors"
	"time"
)

// Forecast errors.
var (
	ErrProviderUnavailable = errors.New("forecast provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrInvalidDayCount     = errors.New("day count must be between 1 and 16")
)

// MaxForecastDays is the longest daily forecast horizon providers support.
const MaxForecastDays = 16

// DayForecast holds one day's forecast in the units the optimizer expects:
// Celsius, km/h, and a 0-100 precipitation probability.
type DayForecast struct {
	// Date of the forecast day (midnight, provider-local).
	Date time.Time `json:"date"`

	// Temperature extremes in Celsius.
	TempMinC float64 `json:"tempMinC"`
	TempMaxC float64 `json:"tempMaxC"`

	// Precipitation probability percentage (0-100).
	PrecipitationProbabilityPct int `json:"precipitationProbabilityPct"`

	// Maximum sustained wind speed in km/h.
	WindSpeedKph float64 `json:"windSpeedKph"`
}

// DailyForecast is a provider's multi-day forecast for a location.
type DailyForecast struct {
	Lat  float64       `json:"lat"`
	Lon  float64       `json:"lon"`
	Days []DayForecast `json:"days"`

	// When the forecast was fetched.
	FetchedAt time.Time `json:"fetchedAt"`
}
