package optimizer

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/itinerary"
)

// Config holds configuration for the itinerary optimizer. The zero value
// gives the default policy.
type Config struct {
	// Thresholds are the risk rule cutoffs. Zero fields use defaults.
	Thresholds RiskThresholds

	// Classifier is the sensitivity classification. Nil maps use defaults.
	Classifier ClassifierConfig

	// ClusterRadiusKm is the proximity radius. Default: 5.0.
	ClusterRadiusKm float64

	// Alternatives is the indoor suggestion pool. Nil uses the default pool.
	Alternatives AlternativesPool

	// MaxAlternatives caps suggestions per high-risk activity. Default: 3.
	MaxAlternatives int

	// Concurrency is the number of days optimized in parallel. Values
	// below 2 keep the sequential path. Days are independent and results
	// are collected by day index, so parallel output is identical to
	// sequential output.
	Concurrency int
}

// Optimizer is the public entry point: it optimizes every day of an
// itinerary against a positional forecast slice and aggregates a trip
// report. It owns no mutable state across calls and is safe for
// concurrent use.
type Optimizer struct {
	day         *DayOptimizer
	concurrency int
}

// New creates a new Optimizer.
func New(cfg Config) *Optimizer {
	classifier := NewClassifier(cfg.Classifier)
	scorer := NewScorer(cfg.Thresholds, classifier)
	clusterer := NewClusterer(cfg.ClusterRadiusKm)

	day := NewDayOptimizer(DayOptimizerConfig{
		Scorer:          scorer,
		Clusterer:       clusterer,
		Alternatives:    cfg.Alternatives,
		MaxAlternatives: cfg.MaxAlternatives,
	})

	return &Optimizer{
		day:         day,
		concurrency: cfg.Concurrency,
	}
}

// Optimize transforms an itinerary against its forecasts. forecasts[i]
// corresponds to days[i] by position; days beyond the forecast length are
// optimized without weather data rather than failing the call. Structural
// violations abort immediately with a wrapped sentinel error. The input
// itinerary is never mutated; the returned itinerary holds the reordered,
// annotated days.
func (o *Optimizer) Optimize(it *itinerary.Itinerary, forecasts []forecast.DayForecast) (*itinerary.Itinerary, *OptimizationReport, error) {
	if err := it.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validating itinerary: %w", err)
	}

	result := &itinerary.Itinerary{Days: make([]itinerary.ItineraryDay, len(it.Days))}
	report := &OptimizationReport{DayReports: make([]DayReport, len(it.Days))}

	optimizeDay := func(i int) {
		var fc *forecast.DayForecast
		if i < len(forecasts) {
			fc = &forecasts[i]
		}
		result.Days[i], report.DayReports[i] = o.day.Optimize(it.Days[i], fc)
	}

	if o.concurrency > 1 && len(it.Days) > 1 {
		// Days are independent; each goroutine writes only its own index.
		var g errgroup.Group
		g.SetLimit(o.concurrency)
		for i := range it.Days {
			g.Go(func() error {
				optimizeDay(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range it.Days {
			optimizeDay(i)
		}
	}

	overall := itinerary.RiskLow
	for _, dr := range report.DayReports {
		overall = itinerary.MaxRisk(overall, dr.RiskLevel)
	}
	report.OverallRisk = overall

	return result, report, nil
}
