package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/geo"
	"github.com/tripcast/tripcast/internal/itinerary"
	"github.com/tripcast/tripcast/internal/optimizer"
)

func threeDayItinerary() *itinerary.Itinerary {
	return &itinerary.Itinerary{
		Days: []itinerary.ItineraryDay{
			{
				DayNumber: 1,
				Theme:     "Coast",
				Activities: []itinerary.Activity{
					{ID: "d1-beach", Name: "Beach Walk", Category: itinerary.CategoryBeach,
						Location: &geo.Coordinate{Lat: 52.3702, Lon: 4.8952}},
					{ID: "d1-museum", Name: "City Museum", Category: itinerary.CategoryMuseum,
						Location: &geo.Coordinate{Lat: 52.3600, Lon: 4.8852}},
				},
			},
			{
				DayNumber: 2,
				Theme:     "Old town",
				Activities: []itinerary.Activity{
					{ID: "d2-walk", Name: "Canal Walk", Category: itinerary.CategoryNature,
						Location: &geo.Coordinate{Lat: 52.3665, Lon: 4.8910}},
				},
			},
			{
				DayNumber: 3,
				Activities: []itinerary.Activity{
					{ID: "d3-market", Name: "Cheese Market", Category: itinerary.CategoryMarket,
						Location: &geo.Coordinate{Lat: 52.3750, Lon: 4.8900}},
				},
			},
		},
	}
}

func threeDayForecasts() []forecast.DayForecast {
	mild := mildForecast()
	rainy := rainyForecast()
	return []forecast.DayForecast{rainy, mild, mild}
}

func TestOptimizer_Optimize(t *testing.T) {
	opt := optimizer.New(optimizer.Config{})

	result, report, err := opt.Optimize(threeDayItinerary(), threeDayForecasts())
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, report)

	require.Len(t, result.Days, 3)
	require.Len(t, report.DayReports, 3)

	// Rainy day 1: museum before beach, overall risk high.
	assert.Equal(t, "d1-museum", result.Days[0].Activities[0].ID)
	assert.Equal(t, itinerary.RiskHigh, report.DayReports[0].RiskLevel)
	assert.Equal(t, itinerary.RiskHigh, report.OverallRisk)
	assert.Equal(t, itinerary.RiskNone, report.DayReports[1].RiskLevel)
}

func TestOptimizer_Optimize_OverallRiskFlooredAtLow(t *testing.T) {
	opt := optimizer.New(optimizer.Config{})
	mild := mildForecast()

	_, report, err := opt.Optimize(threeDayItinerary(), []forecast.DayForecast{mild, mild, mild})
	require.NoError(t, err)
	assert.Equal(t, itinerary.RiskLow, report.OverallRisk)
}

func TestOptimizer_Optimize_Deterministic(t *testing.T) {
	opt := optimizer.New(optimizer.Config{})

	first, firstReport, err := opt.Optimize(threeDayItinerary(), threeDayForecasts())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		result, report, err := opt.Optimize(threeDayItinerary(), threeDayForecasts())
		require.NoError(t, err)
		assert.Equal(t, first, result, "repeated runs must be identical")
		assert.Equal(t, firstReport, report)
	}
}

func TestOptimizer_Optimize_ParallelMatchesSequential(t *testing.T) {
	sequential := optimizer.New(optimizer.Config{})
	parallel := optimizer.New(optimizer.Config{Concurrency: 4})

	seqResult, seqReport, err := sequential.Optimize(threeDayItinerary(), threeDayForecasts())
	require.NoError(t, err)

	parResult, parReport, err := parallel.Optimize(threeDayItinerary(), threeDayForecasts())
	require.NoError(t, err)

	assert.Equal(t, seqResult, parResult)
	assert.Equal(t, seqReport, parReport)
}

func TestOptimizer_Optimize_ShortForecastsDegrade(t *testing.T) {
	opt := optimizer.New(optimizer.Config{})

	// Only one forecast for a three-day itinerary.
	result, report, err := opt.Optimize(threeDayItinerary(), threeDayForecasts()[:1])
	require.NoError(t, err, "partial forecasts must not fail the call")

	for _, act := range result.Days[1].Activities {
		assert.Equal(t, itinerary.RiskNone, act.RiskLevel)
	}
	for _, act := range result.Days[2].Activities {
		assert.Equal(t, itinerary.RiskNone, act.RiskLevel)
	}
	assert.Equal(t, itinerary.RiskNone, report.DayReports[2].RiskLevel)
}

func TestOptimizer_Optimize_NoForecasts(t *testing.T) {
	opt := optimizer.New(optimizer.Config{})

	result, report, err := opt.Optimize(threeDayItinerary(), nil)
	require.NoError(t, err)
	require.Len(t, result.Days, 3)
	assert.Equal(t, itinerary.RiskLow, report.OverallRisk)
}

func TestOptimizer_Optimize_InvalidItinerary(t *testing.T) {
	opt := optimizer.New(optimizer.Config{})

	bad := threeDayItinerary()
	bad.Days[1].DayNumber = 1

	_, _, err := opt.Optimize(bad, nil)
	require.ErrorIs(t, err, itinerary.ErrDuplicateDayNumber)
}

func TestOptimizer_Optimize_ActivityConservationPerDay(t *testing.T) {
	opt := optimizer.New(optimizer.Config{})
	input := threeDayItinerary()

	result, _, err := opt.Optimize(input, threeDayForecasts())
	require.NoError(t, err)

	for i, day := range result.Days {
		want := map[string]bool{}
		for _, act := range input.Days[i].Activities {
			want[act.ID] = true
		}
		got := map[string]bool{}
		for _, act := range day.Activities {
			got[act.ID] = true
		}
		assert.Equal(t, want, got, "day %d must conserve activities", day.DayNumber)
	}
}

func TestOptimizer_Optimize_InputNotMutated(t *testing.T) {
	opt := optimizer.New(optimizer.Config{})
	input := threeDayItinerary()

	_, _, err := opt.Optimize(input, threeDayForecasts())
	require.NoError(t, err)

	assert.Equal(t, threeDayItinerary(), input)
}

func TestOptimizer_Optimize_CustomThresholdsApplied(t *testing.T) {
	// Loosen the precipitation thresholds so 85% is only medium risk.
	opt := optimizer.New(optimizer.Config{
		Thresholds: optimizer.RiskThresholds{
			PrecipHighPct:   90,
			PrecipMediumPct: 60,
		},
	})

	result, report, err := opt.Optimize(threeDayItinerary(), threeDayForecasts())
	require.NoError(t, err)

	assert.Equal(t, itinerary.RiskMedium, report.DayReports[0].RiskLevel)
	// No high risk means no safe-first repartition: cluster order stands.
	assert.Equal(t, "d1-beach", result.Days[0].Activities[0].ID)
}
