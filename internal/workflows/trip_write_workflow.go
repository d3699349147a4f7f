package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/kerov/travel-force/internal/models"
)

// TaskQueue is the queue shared by the API server and the worker
const TaskQueue = "trip-assignment-queue"

// TripWriteWorkflow durably applies one partial trip record write. When the
// write cleared an assigned flight, the contact's issued tickets on that
// flight are voided afterwards.
func TripWriteWorkflow(ctx workflow.Context, input models.TripWriteInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Trip write workflow started", "tripId", input.TripID)

	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	var result models.TripWriteResult
	err := workflow.ExecuteActivity(ctx, "UpdateTripRecord", input).Get(ctx, &result)
	if err != nil {
		logger.Error("Trip record update failed", "tripId", input.TripID, "error", err)
		return err
	}

	// Only a cleared assignment has downstream side effects to run.
	if !input.ClearsAssignedFlight() || result.PreviousFlightID == "" || result.ContactID == "" {
		return nil
	}

	void := models.VoidTicketsInput{
		FlightID:  result.PreviousFlightID,
		ContactID: result.ContactID,
	}
	err = workflow.ExecuteActivity(ctx, "VoidTickets", void).Get(ctx, nil)
	if err != nil {
		logger.Error("Ticket voiding failed", "flightId", void.FlightID, "error", err)
		return err
	}

	logger.Info("Trip write workflow completed", "tripId", input.TripID)
	return nil
}
