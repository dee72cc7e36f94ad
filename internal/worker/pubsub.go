package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/geo"
	"github.com/tripcast/tripcast/internal/optimizer"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	prefetchJob      *PrefetchJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	PrefetchJob      *PrefetchJob
	Logger           zerolog.Logger
}

// JobMessage represents a worker job message.
type JobMessage struct {
	JobType string `json:"job_type"`

	// WindowDays overrides the configured upcoming-trip window for a
	// single forecast_prefetch run. Zero means use the configured window.
	WindowDays int `json:"window_days,omitempty"`

	// TripID selects the trip for a trip_reoptimize job.
	TripID string `json:"trip_id,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		prefetchJob:      cfg.PrefetchJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	// Parse message.
	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Data, &jobMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	// Handle based on job type.
	var err error
	switch jobMsg.JobType {
	case "forecast_prefetch":
		err = h.handleForecastPrefetch(ctx, jobMsg)
	case "trip_reoptimize":
		err = h.handleTripReoptimize(ctx, jobMsg)
	case "health_check":
		err = h.handleHealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", jobMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", jobMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleForecastPrefetch(ctx context.Context, msg JobMessage) error {
	h.logger.Info().
		Int("window_days", msg.WindowDays).
		Msg("starting forecast prefetch")

	job := h.prefetchJob
	if msg.WindowDays > 0 {
		// Run with a one-off window without touching the scheduled job.
		cfg := job.config
		cfg.Window = time.Duration(msg.WindowDays) * 24 * time.Hour
		job = NewPrefetchJob(PrefetchJobConfig{
			Config:          cfg,
			Logger:          h.logger,
			TripService:     h.prefetchJob.trips,
			ForecastService: h.prefetchJob.forecasts,
		})
	}

	result := job.Run(ctx)

	// Log summary.
	h.logger.Info().
		Dur("duration", result.Duration).
		Int("trips", result.Trips).
		Int("warmed", result.Warmed).
		Int("failed", result.Failed).
		Msg("forecast prefetch completed")

	// Consider it successful if more than half the points warmed.
	if result.Failed > result.Warmed {
		return fmt.Errorf("too many prefetch failures: %d/%d", result.Failed, result.TotalPoints)
	}

	return nil
}

func (h *PubSubHandler) handleTripReoptimize(ctx context.Context, msg JobMessage) error {
	if msg.TripID == "" {
		return fmt.Errorf("trip_reoptimize requires trip_id")
	}

	job := h.prefetchJob
	if job.trips == nil {
		return fmt.Errorf("trip_reoptimize requires a trip service")
	}

	t, err := job.trips.GetDomain(ctx, msg.TripID)
	if err != nil {
		return fmt.Errorf("loading trip %s: %w", msg.TripID, err)
	}

	var forecasts []forecast.DayForecast
	if job.forecasts != nil {
		days := horizonDays(t, time.Now())
		forecasts, err = job.forecasts.GetDayForecasts(ctx, t.DestinationPoint.Lat, t.DestinationPoint.Lon, days)
		if err != nil {
			h.logger.Warn().
				Err(err).
				Str("trip_id", t.ID).
				Msg("forecast unavailable, reoptimizing without weather scoring")
			forecasts = nil
		}
	}

	optimized, report, err := optimizer.New(optimizer.Config{}).Optimize(&t.Itinerary, forecasts)
	if err != nil {
		return fmt.Errorf("optimizing trip %s: %w", t.ID, err)
	}

	if _, err := job.trips.SaveItinerary(ctx, t.ID, *optimized); err != nil {
		return fmt.Errorf("saving trip %s: %w", t.ID, err)
	}

	h.logger.Info().
		Str("trip_id", t.ID).
		Str("overall_risk", string(report.OverallRisk)).
		Msg("trip reoptimized")

	return nil
}

func (h *PubSubHandler) handleHealthCheck(ctx context.Context) error {
	h.logger.Debug().Msg("running health check")

	// Warm a single fixed point to verify provider connectivity.
	target := PrefetchTarget{
		TripID: "health-check",
		Label:  "health-check",
		Points: []geo.Coordinate{{Lat: 38.7223, Lon: -9.1393}}, // Lisbon
		Days:   1,
	}

	result := h.prefetchJob.Prefetch(ctx, []PrefetchTarget{target})

	if result.Failed > 0 {
		return fmt.Errorf("health check failed: %d errors", result.Failed)
	}

	h.logger.Debug().Msg("health check passed")
	return nil
}
