package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripcast/tripcast/internal/api/models"
	"github.com/tripcast/tripcast/internal/geo"
	"github.com/tripcast/tripcast/internal/itinerary"
)

// Validation constants.
const (
	MaxLabelLength       = 80
	MaxDestinationLength = 120
	MaxNotesLength       = 500
	MaxItineraryDays     = 30
)

// Service provides trip operations.
type Service struct {
	repo Repository
}

// NewService creates a new trip service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves a page of trips.
func (s *Service) List(ctx context.Context, limit int, cursor string) (*models.PagedTrips, error) {
	result, err := s.repo.List(ctx, ListOptions{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}

	items := make([]models.Trip, 0, len(result.Trips))
	for _, t := range result.Trips {
		items = append(items, s.toAPITrip(t))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedTrips{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a trip by ID.
func (s *Service) Get(ctx context.Context, tripID string) (*models.Trip, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	result := s.toAPITrip(t)
	return &result, nil
}

// GetDomain retrieves the domain trip by ID. Used by callers that need the
// raw itinerary rather than the API view, such as the optimize endpoint.
func (s *Service) GetDomain(ctx context.Context, tripID string) (*Trip, error) {
	return s.repo.GetByID(ctx, tripID)
}

// Create creates a new trip.
func (s *Service) Create(ctx context.Context, input *models.TripCreateRequest) (*models.Trip, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	tripID := "trp_" + uuid.New().String()[:22]

	t := &Trip{
		ID:          tripID,
		Label:       input.Label,
		Destination: input.Destination,
		DestinationPoint: geo.Coordinate{
			Lat: input.DestinationPoint.Lat,
			Lon: input.DestinationPoint.Lon,
		},
		StartDate: input.StartDate.Time().UTC().Truncate(24 * time.Hour),
		Itinerary: input.Itinerary,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	result := s.toAPITrip(t)
	return &result, nil
}

// Update updates an existing trip.
func (s *Service) Update(ctx context.Context, tripID string, input *models.TripUpdateRequest) (*models.Trip, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Label != nil {
		t.Label = *input.Label
	}
	if input.Destination != nil {
		t.Destination = *input.Destination
	}
	if input.DestinationPoint != nil {
		t.DestinationPoint = geo.Coordinate{
			Lat: input.DestinationPoint.Lat,
			Lon: input.DestinationPoint.Lon,
		}
	}
	if input.StartDate != nil {
		t.StartDate = input.StartDate.Time().UTC().Truncate(24 * time.Hour)
	}
	if input.Itinerary != nil {
		t.Itinerary = *input.Itinerary
	}
	if input.Notes != nil {
		t.Notes = input.Notes
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	result := s.toAPITrip(t)
	return &result, nil
}

// SaveItinerary replaces a trip's itinerary. Used after optimization to
// persist the annotated plan.
func (s *Service) SaveItinerary(ctx context.Context, tripID string, it itinerary.Itinerary) (*Trip, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	t.Itinerary = it
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Delete deletes a trip.
func (s *Service) Delete(ctx context.Context, tripID string) error {
	return s.repo.Delete(ctx, tripID)
}

// Upcoming returns trips starting within the given window from now.
func (s *Service) Upcoming(ctx context.Context, window time.Duration) ([]*Trip, error) {
	now := time.Now().UTC()
	return s.repo.ListUpcoming(ctx, now.Truncate(24*time.Hour), now.Add(window))
}

// ToAPITrip converts a domain Trip to an API Trip.
func (s *Service) ToAPITrip(t *Trip) models.Trip {
	return s.toAPITrip(t)
}

func (s *Service) toAPITrip(t *Trip) models.Trip {
	return models.Trip{
		ID:          t.ID,
		Label:       t.Label,
		Destination: t.Destination,
		DestinationPoint: models.Point{
			Lat: t.DestinationPoint.Lat,
			Lon: t.DestinationPoint.Lon,
		},
		StartDate: models.DateOnly(t.StartDate),
		Itinerary: t.Itinerary,
		Notes:     t.Notes,
		DayPaths:  dayPaths(t.Itinerary),
		CreatedAt: models.Timestamp(t.CreatedAt),
		UpdatedAt: models.Timestamp(t.UpdatedAt),
	}
}

// dayPaths encodes each day's activity locations as a polyline, in visit
// order, for map rendering. Returns nil when no activity has a location.
func dayPaths(it itinerary.Itinerary) []string {
	paths := make([]string, len(it.Days))
	located := false

	for i, day := range it.Days {
		coords := make([]geo.Coordinate, 0, len(day.Activities))
		for _, act := range day.Activities {
			if act.Location == nil {
				continue
			}
			coords = append(coords, *act.Location)
		}
		if len(coords) > 0 {
			located = true
		}
		paths[i] = geo.EncodePolyline(coords)
	}

	if !located {
		return nil
	}
	return paths
}

// validateCreateInput validates the create trip input.
func (s *Service) validateCreateInput(input *models.TripCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label == "" {
		errs = append(errs, models.FieldError{Field: "label", Message: "is required"})
	} else if len(input.Label) > MaxLabelLength {
		errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
	}

	if input.Destination == "" {
		errs = append(errs, models.FieldError{Field: "destination", Message: "is required"})
	} else if len(input.Destination) > MaxDestinationLength {
		errs = append(errs, models.FieldError{Field: "destination", Message: "must be at most 120 characters"})
	}

	errs = append(errs, s.validatePoint(input.DestinationPoint, "destinationPoint")...)

	if input.StartDate.Time().IsZero() {
		errs = append(errs, models.FieldError{Field: "startDate", Message: "is required"})
	}

	errs = append(errs, s.validateItinerary(&input.Itinerary)...)

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateUpdateInput validates the update trip input.
func (s *Service) validateUpdateInput(input *models.TripUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label != nil {
		if *input.Label == "" {
			errs = append(errs, models.FieldError{Field: "label", Message: "cannot be empty"})
		} else if len(*input.Label) > MaxLabelLength {
			errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
		}
	}

	if input.Destination != nil {
		if *input.Destination == "" {
			errs = append(errs, models.FieldError{Field: "destination", Message: "cannot be empty"})
		} else if len(*input.Destination) > MaxDestinationLength {
			errs = append(errs, models.FieldError{Field: "destination", Message: "must be at most 120 characters"})
		}
	}

	if input.DestinationPoint != nil {
		errs = append(errs, s.validatePoint(*input.DestinationPoint, "destinationPoint")...)
	}

	if input.Itinerary != nil {
		errs = append(errs, s.validateItinerary(input.Itinerary)...)
	}

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validatePoint validates a coordinate field.
func (s *Service) validatePoint(p models.Point, prefix string) []models.FieldError {
	var errs []models.FieldError

	if p.Lat < -90 || p.Lat > 90 {
		errs = append(errs, models.FieldError{
			Field:   prefix + ".lat",
			Message: "must be between -90 and 90",
		})
	}

	if p.Lon < -180 || p.Lon > 180 {
		errs = append(errs, models.FieldError{
			Field:   prefix + ".lon",
			Message: "must be between -180 and 180",
		})
	}

	return errs
}

// validateItinerary validates an itinerary field against the domain
// invariants and trip limits.
func (s *Service) validateItinerary(it *itinerary.Itinerary) []models.FieldError {
	if len(it.Days) == 0 {
		return []models.FieldError{{Field: "itinerary.days", Message: "is required"}}
	}
	if len(it.Days) > MaxItineraryDays {
		return []models.FieldError{{
			Field:   "itinerary.days",
			Message: fmt.Sprintf("must contain at most %d days", MaxItineraryDays),
		}}
	}
	if err := it.Validate(); err != nil {
		return []models.FieldError{{Field: "itinerary", Message: err.Error()}}
	}
	return nil
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// IsNotFound reports whether an error is the trip-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTripNotFound)
}
