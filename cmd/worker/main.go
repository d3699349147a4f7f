package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/kerov/travel-force/internal/activities"
	"github.com/kerov/travel-force/internal/config"
	"github.com/kerov/travel-force/internal/database"
	"github.com/kerov/travel-force/internal/workflows"
	"github.com/kerov/travel-force/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	ctx := context.Background()

	// Connect to database
	pool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Msg("connected to database")

	repo := database.NewRepository(pool)

	// Connect to Temporal
	host := cfg.TemporalHost
	if host == "" {
		host = "localhost:7233"
	}
	c, err := client.Dial(client.Options{HostPort: host})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Temporal")
	}
	defer c.Close()
	log.Info().Str("host", host).Msg("connected to Temporal")

	// Create worker
	w := worker.New(c, workflows.TaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflow(workflows.TripWriteWorkflow)

	// Create and register activities
	acts := activities.NewActivities(repo)
	w.RegisterActivityWithOptions(acts.UpdateTripRecord, activity.RegisterOptions{Name: "UpdateTripRecord"})
	w.RegisterActivityWithOptions(acts.VoidTickets, activity.RegisterOptions{Name: "VoidTickets"})

	// Start worker
	log.Info().Msg("starting Temporal worker")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal().Err(err).Msg("worker failed")
	}
}
