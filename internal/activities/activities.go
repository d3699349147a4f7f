// Package activities implements the worker-side operations behind the trip
// write workflow.
package activities

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/kerov/travel-force/internal/database"
	"github.com/kerov/travel-force/internal/models"
)

// Activities holds dependencies for activity implementations
type Activities struct {
	repo *database.Repository
}

// NewActivities creates a new Activities instance
func NewActivities(repo *database.Repository) *Activities {
	return &Activities{repo: repo}
}

// UpdateTripRecord applies a partial field update to a trip record. It reads
// the record first and reports the previously assigned flight and contact so
// the workflow can trigger downstream voiding for cleared assignments.
func (a *Activities) UpdateTripRecord(ctx context.Context, input models.TripWriteInput) (*models.TripWriteResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Updating trip record", "tripId", input.TripID)

	tripID, err := uuid.Parse(input.TripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip id: %w", err)
	}

	trip, err := a.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}

	result := &models.TripWriteResult{}
	if trip.AssignedFlightID != nil {
		result.PreviousFlightID = trip.AssignedFlightID.String()
	}
	if trip.ContactID != nil {
		result.ContactID = trip.ContactID.String()
	}

	if err := a.repo.UpdateTripFields(ctx, tripID, input.Fields); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	logger.Info("Trip record updated", "tripId", input.TripID)
	return result, nil
}

// VoidTickets voids all issued tickets for a (flight, contact) pair. Runs
// after a trip's assignment is cleared; the assignment engine's settling
// delay exists to let this finish before a replacement flight is written.
func (a *Activities) VoidTickets(ctx context.Context, input models.VoidTicketsInput) error {
	logger := activity.GetLogger(ctx)

	flightID, err := uuid.Parse(input.FlightID)
	if err != nil {
		return fmt.Errorf("invalid flight id: %w", err)
	}
	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return fmt.Errorf("invalid contact id: %w", err)
	}

	count, err := a.repo.VoidTickets(ctx, flightID, contactID)
	if err != nil {
		return err
	}

	logger.Info("Tickets voided", "flightId", input.FlightID, "count", count)
	return nil
}
