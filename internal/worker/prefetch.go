package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/geo"
	"github.com/tripcast/tripcast/internal/trip"
)

// PrefetchJob warms the forecast cache for trips departing soon, so the
// interactive optimize endpoints hit warm caches instead of the provider.
type PrefetchJob struct {
	config PrefetchConfig
	logger zerolog.Logger

	trips     *trip.Service
	forecasts *forecast.Service

	metrics *PrefetchMetrics
}

// PrefetchMetrics tracks prefetch job statistics.
type PrefetchMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns     int64
	TripsSeen     int64
	PointsWarmed  int64
	PointsFailed  int64
	ForecastFetch int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// PrefetchJobConfig holds configuration for creating a PrefetchJob.
type PrefetchJobConfig struct {
	Config          PrefetchConfig
	Logger          zerolog.Logger
	TripService     *trip.Service
	ForecastService *forecast.Service
}

// NewPrefetchJob creates a new forecast prefetch job processor.
func NewPrefetchJob(cfg PrefetchJobConfig) *PrefetchJob {
	return &PrefetchJob{
		config:    cfg.Config.withDefaults(),
		logger:    cfg.Logger,
		trips:     cfg.TripService,
		forecasts: cfg.ForecastService,
		metrics:   &PrefetchMetrics{},
	}
}

// PrefetchResult contains the result of a prefetch run.
type PrefetchResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Trips       int
	TotalPoints int
	Warmed      int
	Failed      int
	Errors      []PrefetchError
}

// PrefetchError represents an error while warming a single point.
type PrefetchError struct {
	TripID string
	Point  geo.Coordinate
	Error  string
}

// Run lists trips departing within the configured window and warms the
// forecast cache for each of them.
func (j *PrefetchJob) Run(ctx context.Context) *PrefetchResult {
	if j.trips == nil {
		j.logger.Warn().Msg("prefetch run skipped: no trip service configured")
		now := time.Now()
		return &PrefetchResult{StartTime: now, EndTime: now}
	}

	upcoming, err := j.trips.Upcoming(ctx, j.config.Window)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to list upcoming trips")
		now := time.Now()
		return &PrefetchResult{
			StartTime: now,
			EndTime:   now,
			Errors:    []PrefetchError{{Error: err.Error()}},
		}
	}

	targets := TargetsForTrips(upcoming, j.config, time.Now())
	return j.Prefetch(ctx, targets)
}

// Prefetch warms the forecast cache for the given targets using a pool
// of concurrent workers.
func (j *PrefetchJob) Prefetch(ctx context.Context, targets []PrefetchTarget) *PrefetchResult {
	startTime := time.Now()
	result := &PrefetchResult{
		StartTime:   startTime,
		Trips:       len(targets),
		TotalPoints: TotalPoints(targets),
	}

	j.logger.Info().
		Int("trips", result.Trips).
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Msg("starting forecast prefetch job")

	targetsChan := make(chan PrefetchTarget, len(targets))
	resultsChan := make(chan targetResult, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.prefetchWorker(ctx, targetsChan, resultsChan)
		}()
	}

	for _, target := range targets {
		targetsChan <- target
	}
	close(targetsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for tr := range resultsChan {
		result.Warmed += tr.warmed
		result.Failed += tr.failed
		result.Errors = append(result.Errors, tr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("warmed", result.Warmed).
		Int("failed", result.Failed).
		Msg("forecast prefetch job completed")

	return result
}

type targetResult struct {
	tripID string
	warmed int
	failed int
	errors []PrefetchError
}

func (j *PrefetchJob) prefetchWorker(ctx context.Context, targets <-chan PrefetchTarget, results chan<- targetResult) {
	for target := range targets {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.prefetchTarget(ctx, target)
		}
	}
}

func (j *PrefetchJob) prefetchTarget(ctx context.Context, target PrefetchTarget) targetResult {
	result := targetResult{tripID: target.TripID}

	targetCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	for _, p := range target.Points {
		if j.forecasts == nil {
			result.warmed++
			continue
		}

		_, err := j.forecasts.GetDayForecasts(targetCtx, p.Lat, p.Lon, target.Days)
		if err != nil {
			result.errors = append(result.errors, PrefetchError{
				TripID: target.TripID,
				Point:  p,
				Error:  err.Error(),
			})
			result.failed++
			continue
		}

		result.warmed++
		atomic.AddInt64(&j.metrics.ForecastFetch, 1)
	}

	return result
}

func (j *PrefetchJob) updateMetrics(result *PrefetchResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.TripsSeen += int64(result.Trips)
	j.metrics.PointsWarmed += int64(result.Warmed)
	j.metrics.PointsFailed += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *PrefetchJob) GetMetrics() PrefetchMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return PrefetchMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		TripsSeen:       j.metrics.TripsSeen,
		PointsWarmed:    j.metrics.PointsWarmed,
		PointsFailed:    j.metrics.PointsFailed,
		ForecastFetch:   atomic.LoadInt64(&j.metrics.ForecastFetch),
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map,
// including the forecast cache state when a forecast service is wired.
func (j *PrefetchJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	snapshot := map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"trips_seen":        m.TripsSeen,
		"points_warmed":     m.PointsWarmed,
		"points_failed":     m.PointsFailed,
		"forecast_fetches":  m.ForecastFetch,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}

	if j.forecasts != nil {
		stats := j.forecasts.CacheStats()
		snapshot["cache_entries"] = stats.TotalEntries
		snapshot["cache_fresh"] = stats.FreshEntries
		snapshot["cache_stale"] = stats.StaleEntries
	}

	return snapshot
}
