package optimizer

import (
	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/geo"
	"github.com/tripcast/tripcast/internal/itinerary"
)

// DefaultMaxAlternatives is the default cap on alternative suggestions
// attached to a high-risk activity.
const DefaultMaxAlternatives = 3

// DayOptimizerConfig holds configuration for a DayOptimizer.
type DayOptimizerConfig struct {
	// Scorer computes per-activity risk. If nil, a default scorer is used.
	Scorer *Scorer

	// Clusterer groups activities by proximity. If nil, uses the default
	// radius.
	Clusterer *Clusterer

	// Alternatives is the suggestion pool for high-risk activities.
	// If nil, uses DefaultAlternativesPool.
	Alternatives AlternativesPool

	// MaxAlternatives caps suggestions per activity. Default: 3.
	MaxAlternatives int
}

// DayOptimizer reorders and annotates a single day.
type DayOptimizer struct {
	scorer          *Scorer
	clusterer       *Clusterer
	alternatives    AlternativesPool
	maxAlternatives int
}

// NewDayOptimizer creates a new DayOptimizer.
func NewDayOptimizer(cfg DayOptimizerConfig) *DayOptimizer {
	if cfg.Scorer == nil {
		cfg.Scorer = NewScorer(DefaultRiskThresholds(), nil)
	}
	if cfg.Clusterer == nil {
		cfg.Clusterer = NewClusterer(DefaultClusterRadiusKm)
	}
	if cfg.Alternatives == nil {
		cfg.Alternatives = DefaultAlternativesPool()
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = DefaultMaxAlternatives
	}
	return &DayOptimizer{
		scorer:          cfg.Scorer,
		clusterer:       cfg.Clusterer,
		alternatives:    cfg.Alternatives,
		maxAlternatives: cfg.MaxAlternatives,
	}
}

// Optimize scores, clusters and reorders one day against its forecast and
// builds the day's report. A nil forecast degrades gracefully: risk scoring
// and alternatives are skipped but proximity clustering still runs, since
// route optimization must not depend on weather data availability.
// The input day is not mutated.
func (d *DayOptimizer) Optimize(day itinerary.ItineraryDay, fc *forecast.DayForecast) (itinerary.ItineraryDay, DayReport) {
	activities := make([]itinerary.Activity, len(day.Activities))
	copy(activities, day.Activities)

	// Score and annotate every activity.
	factorSeen := make(map[RiskFactor]bool)
	var factorOrder []RiskFactor
	dayRisk := itinerary.RiskNone

	for i := range activities {
		act := &activities[i]
		act.Alternatives = nil
		act.WeatherNote = ""

		if !act.HasLocation() {
			act.RiskLevel = itinerary.RiskNone
			act.WeatherNote = noteLocationUnavailable
			continue
		}

		assessment := d.scorer.Assess(act, fc)
		act.RiskLevel = assessment.Level
		dayRisk = itinerary.MaxRisk(dayRisk, assessment.Level)

		for _, f := range assessment.Factors {
			if !factorSeen[f] {
				factorSeen[f] = true
				factorOrder = append(factorOrder, f)
			}
		}
	}

	// Cluster located activities and linearize into a visiting order.
	clusters := d.clusterer.Cluster(activities)
	for ci := range clusters {
		for mi := range clusters[ci].Activities {
			clusters[ci].Activities[mi].ClusterID = ci + 1
		}
	}
	ordered := Linearize(clusters)

	// Safe-first policy: when any activity is high risk, every non-high
	// activity moves ahead of the high-risk ones, preserving relative
	// order within each partition.
	if dayRisk == itinerary.RiskHigh {
		ordered = partitionSafeFirst(ordered)
	}

	// Attach indoor alternatives to high-risk activities.
	for i := range ordered {
		if ordered[i].RiskLevel == itinerary.RiskHigh {
			ordered[i].Alternatives = d.alternatives.suggestionsFor(ordered[i].Category, d.maxAlternatives)
		}
	}

	// Re-insert activities without a location at their original positions.
	result := mergeUnlocated(activities, ordered)

	report := d.buildReport(day.DayNumber, dayRisk, result, factorOrder, fc)

	day.Activities = result
	return day, report
}

// partitionSafeFirst stably splits activities into non-high then high risk.
func partitionSafeFirst(activities []itinerary.Activity) []itinerary.Activity {
	safe := make([]itinerary.Activity, 0, len(activities))
	var risky []itinerary.Activity

	for _, act := range activities {
		if act.RiskLevel == itinerary.RiskHigh {
			risky = append(risky, act)
		} else {
			safe = append(safe, act)
		}
	}

	return append(safe, risky...)
}

// mergeUnlocated rebuilds the day order, keeping activities without a
// location at their original index and filling the remaining slots with
// the optimized order.
func mergeUnlocated(original, ordered []itinerary.Activity) []itinerary.Activity {
	result := make([]itinerary.Activity, len(original))
	next := 0

	for i := range original {
		if !original[i].HasLocation() {
			result[i] = original[i]
		}
	}
	for i := range result {
		if result[i].ID == "" && next < len(ordered) {
			result[i] = ordered[next]
			next++
		}
	}

	return result
}

// buildReport assembles the day-level report.
func (d *DayOptimizer) buildReport(
	dayNumber int,
	dayRisk itinerary.RiskLevel,
	activities []itinerary.Activity,
	factors []RiskFactor,
	fc *forecast.DayForecast,
) DayReport {
	report := DayReport{
		DayNumber: dayNumber,
		RiskLevel: dayRisk,
	}

	var path []geo.Coordinate
	for i := range activities {
		if activities[i].RiskLevel.Rank() >= itinerary.RiskMedium.Rank() {
			report.AffectedActivityIDs = append(report.AffectedActivityIDs, activities[i].ID)
		}
		if activities[i].Location != nil {
			path = append(path, *activities[i].Location)
		}
	}

	for _, f := range factors {
		if text, ok := recommendationText[f]; ok {
			report.Recommendations = append(report.Recommendations, text)
		}
	}
	if fc == nil && len(activities) > 0 {
		report.Recommendations = append(report.Recommendations, recNoForecast)
	}

	report.TravelDistanceKm = geo.PathLengthKm(path)
	report.RoutePolyline = geo.EncodePolyline(path)

	return report
}
