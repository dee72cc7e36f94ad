package trip

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory Repository used in tests and local
// development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		trips: make(map[string]*Trip),
	}
}

// Create stores a new trip.
func (r *InMemoryRepository) Create(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *t
	r.trips[t.ID] = &cp
	return nil
}

// GetByID retrieves a trip by ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}

	cp := *t
	return &cp, nil
}

// List returns trips ordered by creation time descending.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Trip, 0, len(r.trips))
	for _, t := range r.trips {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	start := 0
	if opts.Cursor != "" {
		for i, t := range all {
			if t.ID == opts.Cursor {
				start = i + 1
				break
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	result := &ListResult{}
	for i := start; i < len(all) && len(result.Trips) < limit; i++ {
		cp := *all[i]
		result.Trips = append(result.Trips, &cp)
	}
	if start+len(result.Trips) < len(all) && len(result.Trips) > 0 {
		result.NextCursor = result.Trips[len(result.Trips)-1].ID
	}

	return result, nil
}

// Update replaces an existing trip.
func (r *InMemoryRepository) Update(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[t.ID]; !ok {
		return ErrTripNotFound
	}

	cp := *t
	r.trips[t.ID] = &cp
	return nil
}

// Delete removes a trip.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[id]; !ok {
		return ErrTripNotFound
	}

	delete(r.trips, id)
	return nil
}

// ListUpcoming returns trips starting within [from, until) ordered by start
// date ascending.
func (r *InMemoryRepository) ListUpcoming(_ context.Context, from, until time.Time) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Trip
	for _, t := range r.trips {
		if !t.StartDate.Before(from) && t.StartDate.Before(until) {
			cp := *t
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartDate.Before(matched[j].StartDate)
	})

	return matched, nil
}
