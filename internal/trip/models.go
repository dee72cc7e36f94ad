// Package trip provides saved-trip management: a trip couples a label and
// destination with the itinerary the optimizer works on.
package trip

import (
	"errors"
	"time"

	"github.com/tripcast/tripcast/internal/geo"
	"github.com/tripcast/tripcast/internal/itinerary"
)

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// Trip represents a saved trip.
type Trip struct {
	ID          string
	Label       string
	Destination string

	// DestinationPoint anchors forecast lookups for the whole trip.
	DestinationPoint geo.Coordinate

	// StartDate is the first itinerary day (UTC midnight).
	StartDate time.Time

	Itinerary itinerary.Itinerary
	Notes     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Days returns the trip length in days.
func (t *Trip) Days() int {
	return len(t.Itinerary.Days)
}
