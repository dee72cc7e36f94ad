package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/api/models"
	"github.com/tripcast/tripcast/internal/api/response"
	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/itinerary"
	"github.com/tripcast/tripcast/internal/optimizer"
)

// OptimizeHandler handles stateless itinerary optimization.
type OptimizeHandler struct {
	baseConfig optimizer.Config
	log        zerolog.Logger
}

// NewOptimizeHandler creates a new OptimizeHandler. The base config supplies
// server defaults; per-request options override it.
func NewOptimizeHandler(baseConfig optimizer.Config, log zerolog.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		baseConfig: baseConfig,
		log:        log,
	}
}

// OptimizeItinerary handles POST /v1/itineraries/optimize.
func (h *OptimizeHandler) OptimizeItinerary(w http.ResponseWriter, r *http.Request) {
	var input models.OptimizeItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	opt := optimizer.New(h.configFor(input.Options))

	optimized, report, err := opt.Optimize(&input.Itinerary, toDayForecasts(input.Forecasts))
	if err != nil {
		if isInvalidItinerary(err) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		h.log.Error().Err(err).Msg("itinerary optimization failed")
		response.InternalError(w, r, "failed to optimize itinerary")
		return
	}

	h.log.Info().
		Int("days", len(optimized.Days)).
		Int("forecast_days", len(input.Forecasts)).
		Str("overall_risk", string(report.OverallRisk)).
		Msg("itinerary optimized")

	response.JSON(w, r, http.StatusOK, models.OptimizeItineraryResponse{
		Itinerary: *optimized,
		Report:    *report,
	})
}

// configFor merges per-request options over the server defaults.
func (h *OptimizeHandler) configFor(opts *models.OptimizeOptions) optimizer.Config {
	cfg := h.baseConfig
	if opts == nil {
		return cfg
	}
	if opts.ClusterRadiusKm != nil && *opts.ClusterRadiusKm > 0 {
		cfg.ClusterRadiusKm = *opts.ClusterRadiusKm
	}
	if opts.MaxAlternatives != nil && *opts.MaxAlternatives > 0 {
		cfg.MaxAlternatives = *opts.MaxAlternatives
	}
	if opts.Parallel && cfg.Concurrency < 2 {
		cfg.Concurrency = 4
	}
	return cfg
}

// toDayForecasts converts API forecast inputs to the optimizer's wire type.
func toDayForecasts(inputs []models.DayForecastInput) []forecast.DayForecast {
	if len(inputs) == 0 {
		return nil
	}
	days := make([]forecast.DayForecast, len(inputs))
	for i, in := range inputs {
		days[i] = forecast.DayForecast{
			Date:                        in.Date.Time(),
			TempMinC:                    in.TempMinC,
			TempMaxC:                    in.TempMaxC,
			PrecipitationProbabilityPct: in.PrecipitationProbabilityPct,
			WindSpeedKph:                in.WindSpeedKph,
		}
	}
	return days
}

// isInvalidItinerary reports whether the error is a structural itinerary
// violation rather than an internal failure.
func isInvalidItinerary(err error) bool {
	return errors.Is(err, itinerary.ErrInvalidDayNumber) ||
		errors.Is(err, itinerary.ErrNonConsecutiveDays) ||
		errors.Is(err, itinerary.ErrDuplicateDayNumber) ||
		errors.Is(err, itinerary.ErrDuplicateActivityID) ||
		errors.Is(err, itinerary.ErrMissingActivityID) ||
		errors.Is(err, itinerary.ErrInvalidActivityPoint)
}
