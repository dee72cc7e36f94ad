// Package worker provides background job processing for TripCast.
package worker

import (
	"time"

	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/geo"
	"github.com/tripcast/tripcast/internal/trip"
)

// PrefetchTarget represents one trip whose forecasts should be warmed.
type PrefetchTarget struct {
	// TripID identifies the trip this target was derived from.
	TripID string

	// Label is the human-readable trip label, used for logging.
	Label string

	// Points are the coordinates to warm. The first point is always the
	// trip destination; activity locations follow, deduplicated against
	// points already in the list.
	Points []geo.Coordinate

	// Days is the forecast horizon needed to cover the whole trip,
	// counted from today.
	Days int
}

// PrefetchConfig holds configuration for the forecast prefetch job.
type PrefetchConfig struct {
	// Window is how far ahead to look for departing trips.
	// Default: 7 days.
	Window time.Duration

	// Concurrency is the number of concurrent prefetch operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for warming a single target.
	// Default: 30 seconds
	Timeout time.Duration

	// MinPointSpacingKm drops activity points closer than this to a
	// point already being warmed. Nearby points share a forecast cache
	// cell, so fetching both is wasted provider quota.
	// Default: 10 km, roughly one cache grid cell.
	MinPointSpacingKm float64

	// IncludeActivityPoints enables warming per-activity locations in
	// addition to the trip destination.
	// Default: true
	IncludeActivityPoints bool
}

// DefaultPrefetchConfig returns the default prefetch configuration.
func DefaultPrefetchConfig() PrefetchConfig {
	return PrefetchConfig{
		Window:                7 * 24 * time.Hour,
		Concurrency:           3,
		Timeout:               30 * time.Second,
		MinPointSpacingKm:     10,
		IncludeActivityPoints: true,
	}
}

func (c PrefetchConfig) withDefaults() PrefetchConfig {
	def := DefaultPrefetchConfig()
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MinPointSpacingKm <= 0 {
		c.MinPointSpacingKm = def.MinPointSpacingKm
	}
	return c
}

// TargetsForTrips converts upcoming trips into prefetch targets. Each
// trip contributes its destination point and, when enabled, the distinct
// locations of its activities. The forecast horizon per target covers
// the trip from now through its last itinerary day, capped at the
// provider's maximum.
func TargetsForTrips(trips []*trip.Trip, cfg PrefetchConfig, now time.Time) []PrefetchTarget {
	cfg = cfg.withDefaults()

	targets := make([]PrefetchTarget, 0, len(trips))
	for _, t := range trips {
		target := PrefetchTarget{
			TripID: t.ID,
			Label:  t.Label,
			Points: []geo.Coordinate{t.DestinationPoint},
			Days:   horizonDays(t, now),
		}

		if cfg.IncludeActivityPoints {
			for _, day := range t.Itinerary.Days {
				for _, act := range day.Activities {
					if act.Location == nil {
						continue
					}
					if tooClose(target.Points, *act.Location, cfg.MinPointSpacingKm) {
						continue
					}
					target.Points = append(target.Points, *act.Location)
				}
			}
		}

		targets = append(targets, target)
	}
	return targets
}

// horizonDays returns the number of forecast days needed to cover the
// trip from now through its last day, capped at the provider limit.
func horizonDays(t *trip.Trip, now time.Time) int {
	today := now.UTC().Truncate(24 * time.Hour)
	untilStart := int(t.StartDate.Sub(today) / (24 * time.Hour))
	if untilStart < 0 {
		untilStart = 0
	}

	days := untilStart + t.Days()
	if days < 1 {
		days = 1
	}
	if days > forecast.MaxForecastDays {
		days = forecast.MaxForecastDays
	}
	return days
}

func tooClose(points []geo.Coordinate, p geo.Coordinate, minKm float64) bool {
	for _, existing := range points {
		if geo.DistanceKm(existing, p) < minKm {
			return true
		}
	}
	return false
}

// TotalPoints returns the total number of points across all targets.
func TotalPoints(targets []PrefetchTarget) int {
	total := 0
	for _, target := range targets {
		total += len(target.Points)
	}
	return total
}
