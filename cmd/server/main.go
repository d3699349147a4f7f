package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/client"

	"github.com/kerov/travel-force/internal/config"
	"github.com/kerov/travel-force/internal/database"
	"github.com/kerov/travel-force/internal/handlers"
	"github.com/kerov/travel-force/internal/router"
	"github.com/kerov/travel-force/internal/service"
	"github.com/kerov/travel-force/internal/websocket"
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

	// Temporal is optional: without it, trip writes go straight to the
	// database instead of through the durable write workflow.
	var temporalClient client.Client
	if cfg.TemporalHost != "" {
		temporalClient, err = client.Dial(client.Options{HostPort: cfg.TemporalHost})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Temporal")
		}
		defer temporalClient.Close()
		log.Info().Str("host", cfg.TemporalHost).Msg("connected to Temporal")
	}

	// WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run()

	// Services and handlers
	assignments := service.New(repo, hub, temporalClient, log)
	defer assignments.Close()

	h := handlers.NewHandler(assignments, hub)
	r := router.SetupRouter(h)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("API server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
