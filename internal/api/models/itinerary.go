package models

import (
	"github.com/tripcast/tripcast/internal/itinerary"
	"github.com/tripcast/tripcast/internal/optimizer"
)

// DayForecastInput is a caller-supplied daily forecast. Forecasts are matched
// to itinerary days by position: forecasts[0] covers day 1.
type DayForecastInput struct {
	Date                        DateOnly `json:"date"`
	TempMinC                    float64  `json:"tempMinC"`
	TempMaxC                    float64  `json:"tempMaxC"`
	PrecipitationProbabilityPct int      `json:"precipitationProbabilityPct"`
	WindSpeedKph                float64  `json:"windSpeedKph"`
}

// OptimizeOptions tunes a single optimization call. Omitted fields fall back
// to server defaults.
type OptimizeOptions struct {
	ClusterRadiusKm *float64 `json:"clusterRadiusKm,omitempty" validate:"omitempty,gt=0"`
	MaxAlternatives *int     `json:"maxAlternatives,omitempty" validate:"omitempty,gte=0,lte=10"`
	Parallel        bool     `json:"parallel,omitempty"`
}

// OptimizeItineraryRequest is the request body for POST /v1/itineraries/optimize.
// The itinerary and report wire formats are shared with the optimizer core.
type OptimizeItineraryRequest struct {
	Itinerary itinerary.Itinerary `json:"itinerary" validate:"required"`
	Forecasts []DayForecastInput  `json:"forecasts,omitempty"`
	Options   *OptimizeOptions    `json:"options,omitempty"`
}

// OptimizeItineraryResponse is the optimized itinerary plus its risk report.
type OptimizeItineraryResponse struct {
	Itinerary itinerary.Itinerary          `json:"itinerary"`
	Report    optimizer.OptimizationReport `json:"report"`
}

// TripOptimizeRequest is the request body for POST /v1/trips/{tripId}/optimize.
// Forecasts are fetched server-side from the trip's destination; options only
// tune the run.
type TripOptimizeRequest struct {
	Options *OptimizeOptions `json:"options,omitempty"`
}

// TripOptimizeResponse is the response for POST /v1/trips/{tripId}/optimize.
type TripOptimizeResponse struct {
	Trip   Trip                         `json:"trip"`
	Report optimizer.OptimizationReport `json:"report"`
}
