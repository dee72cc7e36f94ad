package trip

import (
	"context"
	"time"
)

// ListOptions controls cursor pagination for List.
type ListOptions struct {
	// Limit is the maximum number of trips to return.
	Limit int

	// Cursor is an opaque pagination cursor (the ID of the last trip from
	// the previous page). Empty means start from the beginning.
	Cursor string
}

// ListResult contains a page of trips.
type ListResult struct {
	Trips      []*Trip
	NextCursor string
}

// Repository abstracts trip persistence.
type Repository interface {
	Create(ctx context.Context, t *Trip) error
	GetByID(ctx context.Context, id string) (*Trip, error)
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
	Update(ctx context.Context, t *Trip) error
	Delete(ctx context.Context, id string) error

	// ListUpcoming returns trips whose start date falls within [from, until),
	// ordered by start date ascending. Used by the background worker to
	// prefetch forecasts ahead of departure.
	ListUpcoming(ctx context.Context, from, until time.Time) ([]*Trip, error)
}
