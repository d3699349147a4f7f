package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrFieldNotWritable = errors.New("field not writable")
)

// writableTripColumns whitelists the columns the record write primitive may
// touch. Everything else on a trip is owned by other systems.
var writableTripColumns = map[string]bool{
	"assigned_flight_id": true,
}

// Repository handles all database operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// --- Trip Operations ---

// GetTripByID returns a trip by ID
func (r *Repository) GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	query := `
		SELECT id, name, preferred_date, assigned_flight_id, contact_id, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var t Trip
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.PreferredDate, &t.AssignedFlightID, &t.ContactID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &t, nil
}

// UpdateTripFields applies a partial field update to a trip. A nil or empty
// value writes NULL. Only whitelisted columns are accepted.
func (r *Repository) UpdateTripFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	set := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	for col, val := range fields {
		if !writableTripColumns[col] {
			return fmt.Errorf("%w: %s", ErrFieldNotWritable, col)
		}
		if s, ok := val.(string); ok && s == "" {
			val = nil
		}
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := fmt.Sprintf("UPDATE trips SET %s WHERE id = $1", strings.Join(set, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// --- Flight Operations ---

// ListFlightsByDate returns flights departing on the given date, ordered by
// departure time.
func (r *Repository) ListFlightsByDate(ctx context.Context, date time.Time) ([]Flight, error) {
	query := `
		SELECT id, flight_number, name, departure_time, seats_remaining, created_at, updated_at
		FROM flights
		WHERE departure_time >= $1 AND departure_time < $2
		ORDER BY departure_time ASC
	`

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.pool.Query(ctx, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		var f Flight
		err := rows.Scan(
			&f.ID, &f.FlightNumber, &f.Name, &f.DepartureTime, &f.SeatsRemaining,
			&f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		flights = append(flights, f)
	}

	return flights, nil
}

// --- Ticket Operations ---

// GetIssuedTicket returns the issued ticket for a (flight, contact) pair.
func (r *Repository) GetIssuedTicket(ctx context.Context, flightID, contactID uuid.UUID) (*Ticket, error) {
	query := `
		SELECT id, flight_id, contact_id, status, issued_at, created_at, updated_at
		FROM tickets
		WHERE flight_id = $1 AND contact_id = $2 AND status = 'issued'
		ORDER BY issued_at DESC
		LIMIT 1
	`

	var t Ticket
	err := r.pool.QueryRow(ctx, query, flightID, contactID).Scan(
		&t.ID, &t.FlightID, &t.ContactID, &t.Status, &t.IssuedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return &t, nil
}

// VoidTickets voids all issued tickets for a (flight, contact) pair and
// returns how many were voided.
func (r *Repository) VoidTickets(ctx context.Context, flightID, contactID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tickets
		SET status = 'void', updated_at = NOW()
		WHERE flight_id = $1 AND contact_id = $2 AND status = 'issued'
	`, flightID, contactID)
	if err != nil {
		return 0, fmt.Errorf("failed to void tickets: %w", err)
	}
	return tag.RowsAffected(), nil
}
