// Package optimizer transforms a multi-day itinerary against a per-day
// weather forecast: it scores each activity's weather risk, clusters
// activities by proximity into a low-backtracking visiting order, moves
// safe activities ahead of high-risk ones, and reports day-level alerts
// and recommendations. The package is pure and stateless; fetching and
// persistence live in collaborating packages.
package optimizer

import (
	"github.com/tripcast/tripcast/internal/itinerary"
)

// noteLocationUnavailable annotates activities excluded from clustering
// and risk scoring because they carry no coordinates.
const noteLocationUnavailable = "location unavailable"

// recNoForecast reports the degraded no-forecast condition for a day.
const recNoForecast = "Weather forecast unavailable for this day; risk not assessed."

// recommendationText maps triggered risk factors to human-readable
// day-level recommendations.
var recommendationText = map[RiskFactor]string{
	FactorHeavyRain:    "High rain probability. Consider indoor alternatives.",
	FactorPossibleRain: "Showers possible. Keep a flexible backup plan.",
	FactorExtremeHeat:  "Extreme heat expected. Schedule outdoor activities for the morning.",
	FactorFreezingCold: "Sub-zero temperatures expected. Dress warmly and limit time outside.",
	FactorStrongWind:   "Strong wind expected. Avoid exposed viewpoints and water activities.",
}

// DayReport summarizes the optimization outcome for a single day.
type DayReport struct {
	DayNumber int `json:"dayNumber"`

	// RiskLevel is the maximum risk across the day's activities.
	RiskLevel itinerary.RiskLevel `json:"riskLevel"`

	// AffectedActivityIDs lists activities with risk medium or worse,
	// in output order.
	AffectedActivityIDs []string `json:"affectedActivityIds"`

	// Recommendations are deduplicated human-readable strings derived
	// from the triggered risk rules.
	Recommendations []string `json:"recommendations"`

	// TravelDistanceKm is the total great-circle distance along the
	// optimized visiting order.
	TravelDistanceKm float64 `json:"travelDistanceKm"`

	// RoutePolyline is the optimized visiting order encoded as a Google
	// polyline, for map rendering by the caller.
	RoutePolyline string `json:"routePolyline,omitempty"`
}

// OptimizationReport is the trip-level result accompanying an optimized
// itinerary. Produced fresh on every call; never persisted by this package.
type OptimizationReport struct {
	// OverallRisk is the maximum day risk, floored at LOW: the report
	// grades whole trips low/medium/high, so a trip with nothing flagged
	// still reads as low rather than introducing a fourth grade.
	OverallRisk itinerary.RiskLevel `json:"overallRisk"`

	DayReports []DayReport `json:"dayReports"`
}

// AlternativesPool maps activity categories to indoor fallback suggestions
// attached to high-risk activities.
type AlternativesPool map[itinerary.Category][]string

// DefaultAlternativesPool returns the static suggestion pool.
func DefaultAlternativesPool() AlternativesPool {
	return AlternativesPool{
		itinerary.CategoryNature: {
			"Visit a local museum instead",
			"Explore a covered market",
			"Tour a botanical greenhouse",
		},
		itinerary.CategoryBeach: {
			"Relax at a spa or indoor pool",
			"Visit an aquarium",
			"Explore a covered market",
		},
		itinerary.CategoryMarket: {
			"Browse an indoor shopping arcade",
			"Visit a food hall",
			"Take a cooking class",
		},
		itinerary.CategoryHeritage: {
			"Visit a history museum",
			"Tour a palace or cathedral interior",
			"Join an indoor guided exhibition",
		},
		itinerary.CategoryUnspecified: {
			"Visit a local museum instead",
			"Explore a covered market",
		},
	}
}

// suggestionsFor returns up to max alternatives for a category, falling
// back to the unspecified pool for unknown categories.
func (p AlternativesPool) suggestionsFor(category itinerary.Category, max int) []string {
	suggestions, ok := p[category]
	if !ok {
		suggestions = p[itinerary.CategoryUnspecified]
	}
	if len(suggestions) > max {
		suggestions = suggestions[:max]
	}

	// Copy so annotations never alias the shared pool.
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}
