// Package main provides the entrypoint for the TripCast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/api"
	"github.com/tripcast/tripcast/internal/api/middleware"
	"github.com/tripcast/tripcast/internal/config"
	"github.com/tripcast/tripcast/internal/database"
	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/forecast/openmeteo"
	"github.com/tripcast/tripcast/internal/provider/resilience"
	"github.com/tripcast/tripcast/internal/telemetry"
	"github.com/tripcast/tripcast/internal/trip"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripcast-api"

	// Load .env in local development; ignore absence in production.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TripCast API")

	// Get configuration from environment
	appCfg, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    appCfg.Environment,
		OTLPEndpoint:   appCfg.OTLPEndpoint,
		Enabled:        appCfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if appCfg.OTELEnabled {
		log.Info().
			Str("otlp_endpoint", appCfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

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
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize the forecast provider with a resilient HTTP client
	registry := resilience.GlobalRegistry
	forecastHTTP := resilience.NewClient(resilience.DefaultClientConfig(openmeteo.ProviderName))
	registry.Register(openmeteo.ProviderName, forecastHTTP)

	forecastProvider := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    appCfg.OpenMeteoBaseURL,
		HTTPClient: forecastHTTP,
		Logger:     log,
	})

	forecastService := forecast.NewService(forecast.ServiceConfig{
		Provider: forecastProvider,
		Logger:   log,
	})
	log.Info().Str("provider", forecastProvider.Name()).Msg("forecast service initialized")

	// Initialize trip repository and service
	tripRepo := trip.NewPostgresRepository(pool)
	tripService := trip.NewService(tripRepo)
	log.Info().Msg("trip service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		Pool:             pool,
		ProviderRegistry: registry,
		TripService:      tripService,
		ForecastService:  forecastService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
