package forecast

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for daily forecast providers.
type Provider interface {
	// GetDailyForecast fetches a daily forecast for a location covering
	// the requested number of days.
	GetDailyForecast(ctx context.Context, lat, lon float64, days int) (*DailyForecast, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the forecast service.
type ServiceConfig struct {
	// Provider is the forecast data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache forecast data (default: 1 hour).
	// Daily forecasts change slowly, so a long cache is appropriate.
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.1).
	// Points within the same grid cell share cached data; a whole city's
	// activities typically resolve to one entry.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 6 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides daily forecasts with caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu              sync.RWMutex
	cache           map[string]*cachedForecast
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type cachedForecast struct {
	forecast  *DailyForecast
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new forecast service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1 // ~11km at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 6 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedForecast),
		cleanupInterval: 30 * time.Minute,
	}
}

// GetDailyForecast returns a daily forecast for a location.
// Uses cached data if available and not expired.
func (s *Service) GetDailyForecast(ctx context.Context, lat, lon float64, days int) (*DailyForecast, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if days < 1 || days > MaxForecastDays {
		return nil, fmt.Errorf("requested %d days: %w", days, ErrInvalidDayCount)
	}

	cacheKey := s.cacheKey(lat, lon, days)

	// Check cache
	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.forecast, nil
	}
	s.mu.RUnlock()

	// Fetch from provider
	return s.fetchForecast(ctx, lat, lon, days, cacheKey)
}

// GetDayForecasts returns the per-day forecast slice for a location,
// the shape the optimizer takes as input.
func (s *Service) GetDayForecasts(ctx context.Context, lat, lon float64, days int) ([]DayForecast, error) {
	forecast, err := s.GetDailyForecast(ctx, lat, lon, days)
	if err != nil {
		return nil, err
	}
	if len(forecast.Days) > days {
		return forecast.Days[:days], nil
	}
	return forecast.Days, nil
}

// fetchForecast fetches a forecast from the provider and updates the cache.
func (s *Service) fetchForecast(ctx context.Context, lat, lon float64, days int, cacheKey string) (*DailyForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.forecast, nil
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Int("days", days).
		Str("provider", s.provider.Name()).
		Msg("fetching daily forecast from provider")

	forecast, err := s.provider.GetDailyForecast(ctx, lat, lon, days)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Int("days", days).
			Msg("failed to fetch daily forecast")

		// Check for stale data (stale-if-error pattern)
		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale forecast data due to provider error")
				return cached.forecast, nil
			}
		}

		return nil, ErrProviderUnavailable
	}

	// Update cache
	now := time.Now()
	s.cache[cacheKey] = &cachedForecast{
		forecast:  forecast,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	// Periodic cleanup
	s.cleanupIfNeeded()

	return forecast, nil
}

// cacheKey generates a cache key for a location and horizon.
// Groups nearby points into grid cells to reduce provider calls.
func (s *Service) cacheKey(lat, lon float64, days int) string {
	gridLat := math.Floor(lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.2f:%.2f:%d", gridLat, gridLon, days)
}

// cleanupIfNeeded removes expired entries if cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired forecast cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedForecast)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	stale := 0

	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		} else if now.Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			stale++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		StaleEntries: stale,
		Provider:     s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	Provider     string
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// validateCoordinates checks if coordinates are valid.
func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
