// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// App holds configuration shared by both services.
type App struct {
	Port         string `env:"APP_PORT" envDefault:"8080"`
	Environment  string `env:"APP_ENV" envDefault:"development"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTELEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`

	// OpenMeteoBaseURL overrides the public Open-Meteo API endpoint.
	OpenMeteoBaseURL string `env:"OPENMETEO_BASE_URL"`
}

// Worker holds configuration for the background worker.
type Worker struct {
	App

	// PrefetchIntervalMinutes is how often the scheduled prefetch runs.
	PrefetchIntervalMinutes int `env:"PREFETCH_INTERVAL_MINUTES" envDefault:"60"`

	// PrefetchWindowDays overrides the upcoming-trip window. Zero keeps
	// the job default.
	PrefetchWindowDays int `env:"PREFETCH_WINDOW_DAYS"`

	// PrefetchConcurrency overrides the worker-pool size. Zero keeps the
	// job default.
	PrefetchConcurrency int `env:"PREFETCH_CONCURRENCY"`

	// PubSubProject and PubSubSubscription enable on-demand jobs when
	// both are set.
	PubSubProject      string `env:"GOOGLE_CLOUD_PROJECT"`
	PubSubSubscription string `env:"PUBSUB_SUBSCRIPTION"`
}

// LoadApp parses App configuration from the environment.
func LoadApp() (App, error) {
	cfg, err := env.ParseAs[App]()
	if err != nil {
		return App{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// LoadWorker parses Worker configuration from the environment.
func LoadWorker() (Worker, error) {
	cfg, err := env.ParseAs[Worker]()
	if err != nil {
		return Worker{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
