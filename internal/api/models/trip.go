package models

import "github.com/tripcast/tripcast/internal/itinerary"

// Trip represents a saved trip.
type Trip struct {
	ID               string              `json:"id"`
	Label            string              `json:"label"`
	Destination      string              `json:"destination"`
	DestinationPoint Point               `json:"destinationPoint"`
	StartDate        DateOnly            `json:"startDate"`
	Itinerary        itinerary.Itinerary `json:"itinerary"`
	Notes            *string             `json:"notes,omitempty"`

	// DayPaths holds one polyline-encoded path per itinerary day, in day
	// order, for map rendering. Days without located activities encode
	// as an empty string.
	DayPaths []string `json:"dayPaths,omitempty"`

	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// TripCreateRequest is the request body for creating a trip.
type TripCreateRequest struct {
	Label            string              `json:"label" validate:"required,min=1,max=80"`
	Destination      string              `json:"destination" validate:"required,min=1,max=120"`
	DestinationPoint Point               `json:"destinationPoint" validate:"required"`
	StartDate        DateOnly            `json:"startDate" validate:"required"`
	Itinerary        itinerary.Itinerary `json:"itinerary" validate:"required"`
	Notes            *string             `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// TripUpdateRequest is the request body for updating a trip.
type TripUpdateRequest struct {
	Label            *string              `json:"label,omitempty" validate:"omitempty,min=1,max=80"`
	Destination      *string              `json:"destination,omitempty" validate:"omitempty,min=1,max=120"`
	DestinationPoint *Point               `json:"destinationPoint,omitempty"`
	StartDate        *DateOnly            `json:"startDate,omitempty"`
	Itinerary        *itinerary.Itinerary `json:"itinerary,omitempty"`
	Notes            *string              `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// PagedTrips represents a paginated list of trips.
type PagedTrips struct {
	Items []Trip            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
