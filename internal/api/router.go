// Package api provides the HTTP API for TripCast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/api/handler"
	"github.com/tripcast/tripcast/internal/api/middleware"
	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/optimizer"
	"github.com/tripcast/tripcast/internal/provider/resilience"
	"github.com/tripcast/tripcast/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	Pool             *pgxpool.Pool
	ProviderRegistry *resilience.Registry
	TripService      *trip.Service
	ForecastService  *forecast.Service
	OptimizerConfig  optimizer.Config
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "tripcast-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Pool, cfg.ProviderRegistry)
	optimizeHandler := handler.NewOptimizeHandler(cfg.OptimizerConfig, cfg.Logger)
	tripHandler := handler.NewTripHandler(cfg.TripService, cfg.ForecastService, cfg.OptimizerConfig, cfg.Logger)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
			r.Get("/version", opsHandler.Version)
		})

		// Stateless optimization - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/itineraries/optimize", optimizeHandler.OptimizeItinerary)

		// Saved trips
		if cfg.TripService != nil {
			r.Route("/trips", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", tripHandler.ListTrips)
				r.Post("/", tripHandler.CreateTrip)
				r.Route("/{tripId}", func(r chi.Router) {
					r.Get("/", tripHandler.GetTrip)
					r.Put("/", tripHandler.UpdateTrip)
					r.Delete("/", tripHandler.DeleteTrip)
					r.With(expensiveRateLimit).Post("/optimize", tripHandler.OptimizeTrip)
				})
			})
		}
	})

	return r
}
