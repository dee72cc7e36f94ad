package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripcast/tripcast/internal/itinerary"
)

// PostgresRepository is a Postgres-backed Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository on the given connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tripColumns = `id, label, destination, destination_lat, destination_lon,
	start_date, itinerary, notes, created_at, updated_at`

// Create inserts a new trip.
func (r *PostgresRepository) Create(ctx context.Context, t *Trip) error {
	itineraryJSON, err := json.Marshal(t.Itinerary)
	if err != nil {
		return fmt.Errorf("marshaling itinerary: %w", err)
	}

	query := `
		INSERT INTO trips (id, label, destination, destination_lat, destination_lon,
			start_date, itinerary, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.pool.Exec(ctx, query,
		t.ID, t.Label, t.Destination,
		t.DestinationPoint.Lat, t.DestinationPoint.Lon,
		t.StartDate, itineraryJSON, t.Notes,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}

	return nil
}

// GetByID retrieves a trip by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("querying trip: %w", err)
	}

	return t, nil
}

// List returns trips ordered by creation time descending with cursor
// pagination.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	var (
		rows pgx.Rows
		err  error
	)
	if opts.Cursor != "" {
		query := `
			SELECT ` + tripColumns + ` FROM trips
			WHERE (created_at, id) < (SELECT created_at, id FROM trips WHERE id = $1)
			ORDER BY created_at DESC, id DESC
			LIMIT $2`
		rows, err = r.pool.Query(ctx, query, opts.Cursor, limit+1)
	} else {
		query := `
			SELECT ` + tripColumns + ` FROM trips
			ORDER BY created_at DESC, id DESC
			LIMIT $1`
		rows, err = r.pool.Query(ctx, query, limit+1)
	}
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}

	result := &ListResult{Trips: trips}
	if len(trips) > limit {
		result.Trips = trips[:limit]
		result.NextCursor = trips[limit-1].ID
	}

	return result, nil
}

// Update replaces an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, t *Trip) error {
	itineraryJSON, err := json.Marshal(t.Itinerary)
	if err != nil {
		return fmt.Errorf("marshaling itinerary: %w", err)
	}

	query := `
		UPDATE trips
		SET label = $2, destination = $3, destination_lat = $4,
			destination_lon = $5, start_date = $6, itinerary = $7,
			notes = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		t.ID, t.Label, t.Destination,
		t.DestinationPoint.Lat, t.DestinationPoint.Lon,
		t.StartDate, itineraryJSON, t.Notes, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Delete removes a trip.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	return nil
}

// ListUpcoming returns trips starting within [from, until) ordered by start
// date ascending.
func (r *PostgresRepository) ListUpcoming(ctx context.Context, from, until time.Time) ([]*Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE start_date >= $1 AND start_date < $2
		ORDER BY start_date ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, from, until)
	if err != nil {
		return nil, fmt.Errorf("querying upcoming trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating upcoming trips: %w", err)
	}

	return trips, nil
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var (
		t             Trip
		itineraryJSON []byte
	)

	err := row.Scan(
		&t.ID, &t.Label, &t.Destination,
		&t.DestinationPoint.Lat, &t.DestinationPoint.Lon,
		&t.StartDate, &itineraryJSON, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(itineraryJSON) > 0 {
		var it itinerary.Itinerary
		if err := json.Unmarshal(itineraryJSON, &it); err != nil {
			return nil, fmt.Errorf("unmarshaling itinerary: %w", err)
		}
		t.Itinerary = it
	}

	return &t, nil
}
