package optimizer

import (
	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/itinerary"
)

// RiskFactor names a forecast condition that triggered a risk rule.
type RiskFactor string

const (
	FactorHeavyRain    RiskFactor = "HEAVY_RAIN"
	FactorPossibleRain RiskFactor = "POSSIBLE_RAIN"
	FactorExtremeHeat  RiskFactor = "EXTREME_HEAT"
	FactorFreezingCold RiskFactor = "FREEZING_COLD"
	FactorStrongWind   RiskFactor = "STRONG_WIND"
)

// RiskThresholds holds the tunable cutoffs for the risk rules. The defaults
// are deliberate heuristics, not a calibrated model; callers wanting a
// stricter or looser policy override individual fields.
type RiskThresholds struct {
	// PrecipHighPct: precipitation probability above this is high risk.
	// Default: 70.
	PrecipHighPct int

	// PrecipMediumPct: precipitation probability above this (up to
	// PrecipHighPct) is medium risk. Default: 40.
	PrecipMediumPct int

	// HotMaxC: a daily maximum above this counts as a temperature extreme.
	// Default: 35.
	HotMaxC float64

	// ColdMinC: a daily minimum below this counts as a temperature extreme.
	// Default: 0.
	ColdMinC float64

	// WindKph: sustained wind above this counts as strong wind. Default: 40.
	WindKph float64
}

// DefaultRiskThresholds returns the default rule cutoffs.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		PrecipHighPct:   70,
		PrecipMediumPct: 40,
		HotMaxC:         35,
		ColdMinC:        0,
		WindKph:         40,
	}
}

// Assessment is the outcome of scoring one activity against one forecast.
type Assessment struct {
	// Level is the combined risk level: the maximum across triggered rules.
	Level itinerary.RiskLevel

	// Factors lists the conditions that triggered, in rule order.
	Factors []RiskFactor
}

// Scorer computes per-activity weather risk. It applies an ordered rule
// stack (precipitation, temperature extremes, wind) and takes the maximum
// triggered level, so each rule's threshold stays an independent, auditable
// contract. Pure function of its inputs; no side effects.
type Scorer struct {
	thresholds RiskThresholds
	classifier *Classifier
}

// NewScorer creates a new Scorer. Zero-value threshold fields fall back to
// defaults, except ColdMinC whose default is genuinely zero.
func NewScorer(thresholds RiskThresholds, classifier *Classifier) *Scorer {
	if thresholds.PrecipHighPct <= 0 {
		thresholds.PrecipHighPct = DefaultRiskThresholds().PrecipHighPct
	}
	if thresholds.PrecipMediumPct <= 0 {
		thresholds.PrecipMediumPct = DefaultRiskThresholds().PrecipMediumPct
	}
	if thresholds.HotMaxC <= 0 {
		thresholds.HotMaxC = DefaultRiskThresholds().HotMaxC
	}
	if thresholds.WindKph <= 0 {
		thresholds.WindKph = DefaultRiskThresholds().WindKph
	}
	if classifier == nil {
		classifier = NewClassifier(DefaultClassifierConfig())
	}
	return &Scorer{thresholds: thresholds, classifier: classifier}
}

// Score returns the combined risk level for an activity on a forecast day.
func (s *Scorer) Score(act *itinerary.Activity, fc *forecast.DayForecast) itinerary.RiskLevel {
	return s.Assess(act, fc).Level
}

// Assess scores an activity against a day's forecast and reports which
// rules triggered. An activity that can proceed indoors carries no weather
// risk; a nil forecast means risk cannot be assessed and scores none.
func (s *Scorer) Assess(act *itinerary.Activity, fc *forecast.DayForecast) Assessment {
	if fc == nil || !s.classifier.IsOutdoorSensitive(act) {
		return Assessment{Level: itinerary.RiskNone}
	}

	level := itinerary.RiskNone
	var factors []RiskFactor

	// Rule 1: precipitation probability.
	precipRisk := itinerary.RiskNone
	switch {
	case fc.PrecipitationProbabilityPct > s.thresholds.PrecipHighPct:
		precipRisk = itinerary.RiskHigh
		factors = append(factors, FactorHeavyRain)
	case fc.PrecipitationProbabilityPct > s.thresholds.PrecipMediumPct:
		precipRisk = itinerary.RiskMedium
		factors = append(factors, FactorPossibleRain)
	}
	level = itinerary.MaxRisk(level, precipRisk)

	// Rule 2: temperature extremes. One extreme is at least medium,
	// both at once is high.
	hot := fc.TempMaxC > s.thresholds.HotMaxC
	cold := fc.TempMinC < s.thresholds.ColdMinC
	if hot {
		factors = append(factors, FactorExtremeHeat)
	}
	if cold {
		factors = append(factors, FactorFreezingCold)
	}
	switch {
	case hot && cold:
		level = itinerary.MaxRisk(level, itinerary.RiskHigh)
	case hot || cold:
		level = itinerary.MaxRisk(level, itinerary.RiskMedium)
	}

	// Rule 3: wind. At least medium on its own, high when combined with
	// medium-or-worse precipitation.
	if fc.WindSpeedKph > s.thresholds.WindKph {
		factors = append(factors, FactorStrongWind)
		windRisk := itinerary.RiskMedium
		if precipRisk.Rank() >= itinerary.RiskMedium.Rank() {
			windRisk = itinerary.RiskHigh
		}
		level = itinerary.MaxRisk(level, windRisk)
	}

	return Assessment{Level: level, Factors: factors}
}
