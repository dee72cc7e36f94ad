package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/itinerary"
	"github.com/tripcast/tripcast/internal/optimizer"
)

func defaultScorer() *optimizer.Scorer {
	return optimizer.NewScorer(optimizer.DefaultRiskThresholds(), nil)
}

func outdoorActivity() *itinerary.Activity {
	return &itinerary.Activity{ID: "a1", Name: "Beach Walk", Category: itinerary.CategoryBeach}
}

func indoorActivity() *itinerary.Activity {
	return &itinerary.Activity{ID: "a2", Name: "City Museum", Category: itinerary.CategoryMuseum}
}

func mildForecast() forecast.DayForecast {
	return forecast.DayForecast{
		TempMinC:                    14,
		TempMaxC:                    22,
		PrecipitationProbabilityPct: 10,
		WindSpeedKph:                12,
	}
}

func TestScorer_Score_IndoorActivityAlwaysNone(t *testing.T) {
	s := defaultScorer()

	fc := mildForecast()
	fc.PrecipitationProbabilityPct = 95
	fc.TempMaxC = 40
	fc.WindSpeedKph = 80

	assert.Equal(t, itinerary.RiskNone, s.Score(indoorActivity(), &fc))
}

func TestScorer_Score_NilForecastIsNone(t *testing.T) {
	s := defaultScorer()
	assert.Equal(t, itinerary.RiskNone, s.Score(outdoorActivity(), nil))
}

func TestScorer_Score_PrecipitationRule(t *testing.T) {
	s := defaultScorer()

	tests := []struct {
		name   string
		precip int
		want   itinerary.RiskLevel
	}{
		{"calm", 10, itinerary.RiskNone},
		{"at medium boundary", 40, itinerary.RiskNone},
		{"medium", 41, itinerary.RiskMedium},
		{"at high boundary", 70, itinerary.RiskMedium},
		{"high", 71, itinerary.RiskHigh},
		{"certain rain", 100, itinerary.RiskHigh},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fc := mildForecast()
			fc.PrecipitationProbabilityPct = tc.precip
			assert.Equal(t, tc.want, s.Score(outdoorActivity(), &fc))
		})
	}
}

func TestScorer_Score_TemperatureRule(t *testing.T) {
	s := defaultScorer()

	tests := []struct {
		name string
		min  float64
		max  float64
		want itinerary.RiskLevel
	}{
		{"comfortable", 14, 22, itinerary.RiskNone},
		{"hot only", 20, 36, itinerary.RiskMedium},
		{"cold only", -2, 8, itinerary.RiskMedium},
		{"both extremes", -2, 36, itinerary.RiskHigh},
		{"boundary not hot", 14, 35, itinerary.RiskNone},
		{"boundary not cold", 0, 22, itinerary.RiskNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fc := mildForecast()
			fc.TempMinC = tc.min
			fc.TempMaxC = tc.max
			assert.Equal(t, tc.want, s.Score(outdoorActivity(), &fc))
		})
	}
}

func TestScorer_Score_WindRule(t *testing.T) {
	s := defaultScorer()

	fc := mildForecast()
	fc.WindSpeedKph = 45
	assert.Equal(t, itinerary.RiskMedium, s.Score(outdoorActivity(), &fc))

	// Wind combined with medium-or-worse precipitation escalates to high
	fc.PrecipitationProbabilityPct = 50
	assert.Equal(t, itinerary.RiskHigh, s.Score(outdoorActivity(), &fc))
}

func TestScorer_Score_MaxAcrossRules(t *testing.T) {
	s := defaultScorer()

	fc := mildForecast()
	fc.PrecipitationProbabilityPct = 85 // high
	fc.TempMaxC = 36                    // medium
	assert.Equal(t, itinerary.RiskHigh, s.Score(outdoorActivity(), &fc))
}

func TestScorer_Score_PrecipitationMonotonicity(t *testing.T) {
	s := defaultScorer()

	prev := itinerary.RiskNone
	for precip := 0; precip <= 100; precip++ {
		fc := mildForecast()
		fc.PrecipitationProbabilityPct = precip
		level := s.Score(outdoorActivity(), &fc)
		assert.GreaterOrEqual(t, level.Rank(), prev.Rank(),
			"risk must not decrease as precipitation rises (at %d%%)", precip)
		prev = level
	}
}

func TestScorer_Assess_Factors(t *testing.T) {
	s := defaultScorer()

	fc := mildForecast()
	fc.PrecipitationProbabilityPct = 85
	fc.WindSpeedKph = 50

	a := s.Assess(outdoorActivity(), &fc)
	assert.Equal(t, itinerary.RiskHigh, a.Level)
	assert.Equal(t, []optimizer.RiskFactor{optimizer.FactorHeavyRain, optimizer.FactorStrongWind}, a.Factors)
}

func TestScorer_CustomThresholds(t *testing.T) {
	s := optimizer.NewScorer(optimizer.RiskThresholds{
		PrecipHighPct:   90,
		PrecipMediumPct: 60,
		HotMaxC:         30,
		ColdMinC:        5,
		WindKph:         25,
	}, nil)

	fc := mildForecast()
	fc.PrecipitationProbabilityPct = 75
	assert.Equal(t, itinerary.RiskMedium, s.Score(outdoorActivity(), &fc),
		"75%% is medium under a 90%% high threshold")

	fc = mildForecast()
	fc.TempMinC = 3
	assert.Equal(t, itinerary.RiskMedium, s.Score(outdoorActivity(), &fc),
		"3C is cold under a 5C threshold")
}

func TestScorer_ZeroThresholdsFallBackToDefaults(t *testing.T) {
	s := optimizer.NewScorer(optimizer.RiskThresholds{}, nil)

	fc := mildForecast()
	fc.PrecipitationProbabilityPct = 85
	assert.Equal(t, itinerary.RiskHigh, s.Score(outdoorActivity(), &fc))
}
