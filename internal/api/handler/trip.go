package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/api/models"
	"github.com/tripcast/tripcast/internal/api/response"
	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/optimizer"
	"github.com/tripcast/tripcast/internal/trip"
)

// Default and maximum page sizes for trip listing.
const (
	DefaultTripPageSize = 20
	MaxTripPageSize     = 100
)

// TripHandler handles trip endpoints.
type TripHandler struct {
	trips      *trip.Service
	forecasts  *forecast.Service
	baseConfig optimizer.Config
	log        zerolog.Logger
}

// NewTripHandler creates a new TripHandler. The forecast service may be nil;
// trip optimization then runs without weather scoring.
func NewTripHandler(trips *trip.Service, forecasts *forecast.Service, baseConfig optimizer.Config, log zerolog.Logger) *TripHandler {
	return &TripHandler{
		trips:      trips,
		forecasts:  forecasts,
		baseConfig: baseConfig,
		log:        log,
	}
}

// ListTrips handles GET /v1/trips.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	limit := DefaultTripPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "limit must be a positive integer", nil)
			return
		}
		if parsed > MaxTripPageSize {
			parsed = MaxTripPageSize
		}
		limit = parsed
	}
	cursor := r.URL.Query().Get("cursor")

	result, err := h.trips.List(r.Context(), limit, cursor)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list trips")
		response.InternalError(w, r, "failed to list trips")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// CreateTrip handles POST /v1/trips.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var input models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.trips.Create(r.Context(), &input)
	if err != nil {
		var validationErr *trip.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "invalid trip", validationErr.Errors)
			return
		}
		h.log.Error().Err(err).Msg("failed to create trip")
		response.InternalError(w, r, "failed to create trip")
		return
	}

	response.Created(w, r, "/v1/trips/"+created.ID, created)
}

// GetTrip handles GET /v1/trips/{tripId}.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	result, err := h.trips.Get(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("failed to get trip")
		response.InternalError(w, r, "failed to get trip")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// UpdateTrip handles PUT /v1/trips/{tripId}.
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	var input models.TripUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.trips.Update(r.Context(), tripID, &input)
	if err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		var validationErr *trip.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "invalid trip", validationErr.Errors)
			return
		}
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("failed to update trip")
		response.InternalError(w, r, "failed to update trip")
		return
	}

	response.JSON(w, r, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /v1/trips/{tripId}.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	if err := h.trips.Delete(r.Context(), tripID); err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("failed to delete trip")
		response.InternalError(w, r, "failed to delete trip")
		return
	}

	response.NoContent(w, r)
}

// OptimizeTrip handles POST /v1/trips/{tripId}/optimize. Forecasts are
// fetched from the trip's destination; a provider failure degrades to an
// unscored optimization instead of failing the request.
func (h *TripHandler) OptimizeTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	var input models.TripOptimizeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			response.BadRequest(w, r, "invalid JSON body", nil)
			return
		}
	}

	t, err := h.trips.GetDomain(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("failed to get trip")
		response.InternalError(w, r, "failed to get trip")
		return
	}

	var forecasts []forecast.DayForecast
	if h.forecasts != nil {
		days := t.Days()
		if days > forecast.MaxForecastDays {
			days = forecast.MaxForecastDays
		}
		forecasts, err = h.forecasts.GetDayForecasts(r.Context(), t.DestinationPoint.Lat, t.DestinationPoint.Lon, days)
		if err != nil {
			h.log.Warn().Err(err).Str("trip_id", tripID).
				Msg("forecast unavailable, optimizing without weather scoring")
			forecasts = nil
		}
	}

	cfg := h.baseConfig
	if input.Options != nil {
		if input.Options.ClusterRadiusKm != nil && *input.Options.ClusterRadiusKm > 0 {
			cfg.ClusterRadiusKm = *input.Options.ClusterRadiusKm
		}
		if input.Options.MaxAlternatives != nil && *input.Options.MaxAlternatives > 0 {
			cfg.MaxAlternatives = *input.Options.MaxAlternatives
		}
		if input.Options.Parallel && cfg.Concurrency < 2 {
			cfg.Concurrency = 4
		}
	}

	optimized, report, err := optimizer.New(cfg).Optimize(&t.Itinerary, forecasts)
	if err != nil {
		if isInvalidItinerary(err) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("trip optimization failed")
		response.InternalError(w, r, "failed to optimize trip")
		return
	}

	saved, err := h.trips.SaveItinerary(r.Context(), tripID, *optimized)
	if err != nil {
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("failed to persist optimized itinerary")
		response.InternalError(w, r, "failed to persist optimized itinerary")
		return
	}

	h.log.Info().
		Str("trip_id", tripID).
		Int("days", len(optimized.Days)).
		Str("overall_risk", string(report.OverallRisk)).
		Msg("trip optimized")

	response.JSON(w, r, http.StatusOK, models.TripOptimizeResponse{
		Trip:   h.trips.ToAPITrip(saved),
		Report: *report,
	})
}
