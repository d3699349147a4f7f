package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kerov/travel-force/internal/database"
	"github.com/kerov/travel-force/internal/format"
	"github.com/kerov/travel-force/internal/models"
)

// repoSource adapts the database repository to the feed sources and the
// ticket finder, mapping storage rows into enriched domain candidates.
type repoSource struct {
	repo *database.Repository
}

func (r *repoSource) FetchTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTripID, tripID)
	}

	trip, err := r.repo.GetTripByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &models.Trip{
		ID:            trip.ID.String(),
		Name:          trip.Name,
		PreferredDate: trip.PreferredDate,
	}
	if trip.AssignedFlightID != nil {
		out.AssignedFlightID = trip.AssignedFlightID.String()
	}
	if trip.ContactID != nil {
		out.ContactID = trip.ContactID.String()
	}
	return out, nil
}

func (r *repoSource) FetchFlights(ctx context.Context, date time.Time) ([]models.Flight, error) {
	flights, err := r.repo.ListFlightsByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		out = append(out, models.Flight{
			ID:                 f.ID.String(),
			FlightNumber:       f.FlightNumber,
			Name:               f.Name,
			DepartureTime:      f.DepartureTime,
			SeatsRemaining:     f.SeatsRemaining,
			FormattedDeparture: format.Departure(f.DepartureTime),
			CapacityLabel:      format.CapacityLabel(f.SeatsRemaining),
		})
	}
	return out, nil
}

// FindTicket implements engine.TicketFinder: absence is (nil, nil), not an
// error.
func (r *repoSource) FindTicket(ctx context.Context, flightID, contactID string) (*models.Ticket, error) {
	fid, err := uuid.Parse(flightID)
	if err != nil {
		return nil, fmt.Errorf("invalid flight id: %w", err)
	}
	cid, err := uuid.Parse(contactID)
	if err != nil {
		return nil, fmt.Errorf("invalid contact id: %w", err)
	}

	ticket, err := r.repo.GetIssuedTicket(ctx, fid, cid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &models.Ticket{
		ID:        ticket.ID.String(),
		FlightID:  ticket.FlightID.String(),
		ContactID: ticket.ContactID.String(),
		Status:    models.TicketStatus(ticket.Status),
		IssuedAt:  ticket.IssuedAt,
	}, nil
}
