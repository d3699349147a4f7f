package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/kerov/travel-force/internal/database"
	"github.com/kerov/travel-force/internal/models"
	"github.com/kerov/travel-force/internal/workflows"
)

// directWriter applies trip writes straight through the repository.
type directWriter struct {
	repo *database.Repository
}

func (w *directWriter) UpdateTrip(ctx context.Context, tripID string, fields map[string]interface{}) error {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTripID, tripID)
	}
	return w.repo.UpdateTripFields(ctx, id, fields)
}

// temporalWriter routes trip writes through the durable write workflow and
// waits for completion, so the engine's sequencing guarantees hold unchanged.
type temporalWriter struct {
	client client.Client
}

func (w *temporalWriter) UpdateTrip(ctx context.Context, tripID string, fields map[string]interface{}) error {
	options := client.StartWorkflowOptions{
		ID:        "trip-write-" + tripID + "-" + uuid.New().String()[:8],
		TaskQueue: workflows.TaskQueue,
	}

	input := models.TripWriteInput{TripID: tripID, Fields: fields}
	run, err := w.client.ExecuteWorkflow(ctx, options, "TripWriteWorkflow", input)
	if err != nil {
		return fmt.Errorf("failed to start trip write workflow: %w", err)
	}
	return run.Get(ctx, nil)
}
