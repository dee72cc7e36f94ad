// Package main provides the entrypoint for the TripCast background worker.
// The worker warms the forecast cache for trips departing soon, on a
// schedule and on demand via Pub/Sub messages.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tripcast/tripcast/internal/config"
	"github.com/tripcast/tripcast/internal/database"
	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/forecast/openmeteo"
	"github.com/tripcast/tripcast/internal/provider/resilience"
	"github.com/tripcast/tripcast/internal/trip"
	"github.com/tripcast/tripcast/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripcast-worker"

	// Load .env in local development; ignore absence in production.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TripCast worker")

	workerCfg, err := config.LoadWorker()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	dbConfig, err := database.ConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load database config")
	}
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Forecast provider behind a resilient HTTP client
	forecastHTTP := resilience.NewClient(resilience.DefaultClientConfig(openmeteo.ProviderName))
	resilience.GlobalRegistry.Register(openmeteo.ProviderName, forecastHTTP)

	forecastService := forecast.NewService(forecast.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{
			BaseURL:    workerCfg.OpenMeteoBaseURL,
			HTTPClient: forecastHTTP,
			Logger:     log,
		}),
		Logger: log,
	})

	tripService := trip.NewService(trip.NewPostgresRepository(pool))

	prefetchJob := worker.NewPrefetchJob(worker.PrefetchJobConfig{
		Config:          prefetchConfig(workerCfg),
		Logger:          log,
		TripService:     tripService,
		ForecastService: forecastService,
	})

	// Schedule periodic prefetch runs
	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(workerCfg.PrefetchIntervalMinutes).Minutes().Do(func() {
		result := prefetchJob.Run(ctx)
		log.Info().
			Int("trips", result.Trips).
			Int("warmed", result.Warmed).
			Int("failed", result.Failed).
			Msg("scheduled prefetch run finished")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule prefetch job")
	}
	scheduler.StartAsync()
	defer scheduler.Stop()
	log.Info().Int("interval_minutes", workerCfg.PrefetchIntervalMinutes).Msg("prefetch schedule started")

	g, gctx := errgroup.WithContext(ctx)

	// Health endpoint for Cloud Run
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + workerCfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	// On-demand jobs via Pub/Sub, when configured
	if workerCfg.PubSubSubscription != "" {
		pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        workerCfg.PubSubProject,
			SubscriptionName: workerCfg.PubSubSubscription,
			PrefetchJob:      prefetchJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		g.Go(func() error {
			return pubsubHandler.Start(gctx)
		})
	} else {
		log.Warn().Msg("PUBSUB_SUBSCRIPTION not set, on-demand jobs disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker exited with error")
		os.Exit(1)
	}

	log.Info().Msg("worker stopped")
}

func prefetchConfig(cfg config.Worker) worker.PrefetchConfig {
	pc := worker.DefaultPrefetchConfig()
	if cfg.PrefetchWindowDays > 0 {
		pc.Window = time.Duration(cfg.PrefetchWindowDays) * 24 * time.Hour
	}
	if cfg.PrefetchConcurrency > 0 {
		pc.Concurrency = cfg.PrefetchConcurrency
	}
	return pc
}
