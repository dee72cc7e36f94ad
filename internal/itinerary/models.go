// Package itinerary defines the travel itinerary domain model shared by the
// optimizer, the trip store, and the API layer.
package itinerary

import (
	"errors"
	"fmt"

	"github.com/tripcast/tripcast/internal/geo"
)

// Itinerary errors.
var (
	ErrInvalidDayNumber     = errors.New("day number must be positive")
	ErrNonConsecutiveDays   = errors.New("day numbers must be consecutive starting at 1")
	ErrDuplicateDayNumber   = errors.New("duplicate day number")
	ErrDuplicateActivityID  = errors.New("duplicate activity id within day")
	ErrMissingActivityID    = errors.New("activity id is required")
	ErrInvalidActivityPoint = errors.New("activity location out of range")
)

// Category classifies an activity. Incoming itineraries may carry categories
// this core does not know; unknown values are treated as CategoryUnspecified
// by the classifier rather than rejected.
type Category string

const (
	CategoryHeritage    Category = "HERITAGE"
	CategoryNature      Category = "NATURE"
	CategoryBeach       Category = "BEACH"
	CategoryMarket      Category = "MARKET"
	CategoryShopping    Category = "SHOPPING"
	CategoryFood        Category = "FOOD"
	CategoryMuseum      Category = "MUSEUM"
	CategoryIndoor      Category = "INDOOR"
	CategoryNightlife   Category = "NIGHTLIFE"
	CategoryUnspecified Category = "UNSPECIFIED"
)

// TimeOfDay is an activity's preferred slot within a day.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "MORNING"
	TimeAfternoon TimeOfDay = "AFTERNOON"
	TimeEvening   TimeOfDay = "EVENING"
	TimeAny       TimeOfDay = "ANY"
)

// Rank returns the sort rank of a time slot. Morning sorts first, ANY and
// unknown values sort last so explicit preferences always win.
func (t TimeOfDay) Rank() int {
	switch t {
	case TimeMorning:
		return 0
	case TimeAfternoon:
		return 1
	case TimeEvening:
		return 2
	default:
		return 3
	}
}

// RiskLevel grades the weather risk of an activity or a day.
type RiskLevel string

const (
	RiskNone   RiskLevel = "NONE"
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Rank returns the severity rank of a risk level (NONE < LOW < MEDIUM < HIGH).
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

// MaxRisk returns the more severe of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Activity is a single itinerary entry. Input fields are immutable; the
// optimizer only fills the annotation fields (RiskLevel, Alternatives,
// WeatherNote, ClusterID) and never adds or drops activities.
type Activity struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Category           Category        `json:"category"`
	Location           *geo.Coordinate `json:"location,omitempty"`
	PreferredTimeOfDay TimeOfDay       `json:"preferredTimeOfDay,omitempty"`
	DurationMinutes    int             `json:"durationMinutes,omitempty"`

	// Annotations written by the optimizer.
	RiskLevel    RiskLevel `json:"riskLevel,omitempty"`
	Alternatives []string  `json:"alternatives,omitempty"`
	WeatherNote  string    `json:"weatherNote,omitempty"`
	ClusterID    int       `json:"clusterId,omitempty"`
}

// HasLocation reports whether the activity carries usable coordinates.
// Activities without a location are excluded from clustering and risk
// scoring but retained in the output at their original position.
func (a *Activity) HasLocation() bool {
	return a.Location != nil
}

// ItineraryDay is one day of an itinerary with its ordered activities.
type ItineraryDay struct {
	DayNumber  int        `json:"dayNumber"`
	Theme      string     `json:"theme,omitempty"`
	Activities []Activity `json:"activities"`
}

// Itinerary is an ordered multi-day travel plan. The itinerary owns its
// days and activities.
type Itinerary struct {
	Days []ItineraryDay `json:"days"`
}

// Validate checks the structural invariants of an itinerary: day numbers
// are unique and consecutive starting at 1, activity IDs are present and
// unique within their day, and locations (when present) are in range.
// A structural violation aborts the whole optimization call; retrying a
// deterministic computation with the same bad input cannot succeed.
func (it *Itinerary) Validate() error {
	seenDays := make(map[int]bool, len(it.Days))

	for i, day := range it.Days {
		if day.DayNumber < 1 {
			return fmt.Errorf("days[%d]: dayNumber %d: %w", i, day.DayNumber, ErrInvalidDayNumber)
		}
		if seenDays[day.DayNumber] {
			return fmt.Errorf("days[%d]: dayNumber %d: %w", i, day.DayNumber, ErrDuplicateDayNumber)
		}
		seenDays[day.DayNumber] = true

		if err := day.validate(); err != nil {
			return fmt.Errorf("days[%d]: %w", i, err)
		}
	}

	for n := 1; n <= len(it.Days); n++ {
		if !seenDays[n] {
			return fmt.Errorf("missing day %d: %w", n, ErrNonConsecutiveDays)
		}
	}

	return nil
}

// validate checks a single day's activities.
func (d *ItineraryDay) validate() error {
	seenIDs := make(map[string]bool, len(d.Activities))

	for i, act := range d.Activities {
		if act.ID == "" {
			return fmt.Errorf("activities[%d]: %w", i, ErrMissingActivityID)
		}
		if seenIDs[act.ID] {
			return fmt.Errorf("activities[%d]: id %q: %w", i, act.ID, ErrDuplicateActivityID)
		}
		seenIDs[act.ID] = true

		if act.Location != nil {
			if err := act.Location.Validate(); err != nil {
				return fmt.Errorf("activities[%d]: id %q: %w: %w", i, act.ID, ErrInvalidActivityPoint, err)
			}
		}
	}

	return nil
}
