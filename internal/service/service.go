// Package service owns per-trip assignment sessions: each session wires an
// engine to its feeds, writer and sinks, and stays alive for as long as the
// server does.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.temporal.io/sdk/client"

	"github.com/kerov/travel-force/internal/database"
	"github.com/kerov/travel-force/internal/engine"
	"github.com/kerov/travel-force/internal/feeds"
	"github.com/kerov/travel-force/internal/models"
	"github.com/kerov/travel-force/internal/websocket"
)

// ErrInvalidTripID is returned for trip ids that are not UUIDs.
var ErrInvalidTripID = errors.New("invalid trip id")

// AssignmentService defines the trip flight assignment service interface
type AssignmentService interface {
	ViewState(ctx context.Context, tripID string) (*models.ViewState, error)
	SelectFlight(ctx context.Context, tripID, flightID string) error
	ClearFlight(ctx context.Context, tripID string) error
	Refresh(ctx context.Context, tripID string) error
	NavigateToTicket(ctx context.Context, tripID string) (*models.RecordRef, error)
}

type session struct {
	engine     *engine.Engine
	tripFeed   *feeds.TripFeed
	flightFeed *feeds.FlightFeed
	cancel     context.CancelFunc
}

// RefreshTrip implements engine.Refresher.
func (s *session) RefreshTrip() { s.tripFeed.Refresh() }

// RefreshFlights implements engine.Refresher.
func (s *session) RefreshFlights() { s.flightFeed.Refresh() }

// Service implements AssignmentService over the repository, the hub and an
// optional Temporal client for durable writes.
type Service struct {
	log      zerolog.Logger
	repo     *database.Repository
	hub      *websocket.Hub
	temporal client.Client // nil: write directly through the repository

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates the assignment service. temporalClient may be nil, in which
// case trip writes go straight to the database.
func New(repo *database.Repository, hub *websocket.Hub, temporalClient client.Client, log zerolog.Logger) *Service {
	return &Service{
		log:      log.With().Str("component", "service").Logger(),
		repo:     repo,
		hub:      hub,
		temporal: temporalClient,
		sessions: make(map[string]*session),
	}
}

// Close tears down all sessions. In-flight operations are not aborted; the
// feeds simply stop delivering.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.cancel()
		delete(s.sessions, id)
	}
}

func (s *Service) ViewState(_ context.Context, tripID string) (*models.ViewState, error) {
	sess, err := s.session(tripID)
	if err != nil {
		return nil, err
	}
	snap := sess.engine.Snapshot()
	return &snap, nil
}

func (s *Service) SelectFlight(ctx context.Context, tripID, flightID string) error {
	sess, err := s.session(tripID)
	if err != nil {
		return err
	}
	return sess.engine.SelectFlight(ctx, flightID)
}

func (s *Service) ClearFlight(ctx context.Context, tripID string) error {
	sess, err := s.session(tripID)
	if err != nil {
		return err
	}
	return sess.engine.ClearFlight(ctx)
}

func (s *Service) Refresh(_ context.Context, tripID string) error {
	sess, err := s.session(tripID)
	if err != nil {
		return err
	}
	sess.RefreshTrip()
	sess.RefreshFlights()
	return nil
}

func (s *Service) NavigateToTicket(_ context.Context, tripID string) (*models.RecordRef, error) {
	sess, err := s.session(tripID)
	if err != nil {
		return nil, err
	}
	return sess.engine.NavigateToTicket()
}

// session returns the live session for a trip, starting one on first use.
func (s *Service) session(tripID string) (*session, error) {
	if _, err := uuid.Parse(tripID); err != nil {
		return nil, ErrInvalidTripID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[tripID]; ok {
		return sess, nil
	}

	sess := s.startSession(tripID)
	s.sessions[tripID] = sess
	s.log.Info().Str("tripId", tripID).Msg("session started")
	return sess, nil
}

func (s *Service) startSession(tripID string) *session {
	ctx, cancel := context.WithCancel(context.Background())
	source := &repoSource{repo: s.repo}

	eng := engine.New(engine.Config{
		TripID:  tripID,
		Writer:  s.writer(),
		Tickets: source,
		Notifier: notifierFunc(func(n models.Notification) {
			s.hub.BroadcastToast(tripID, n)
		}),
		Navigator: navigatorFunc(func(ref models.RecordRef) {
			s.hub.BroadcastNavigate(tripID, ref)
		}),
		OnChange: func(state models.ViewState) {
			s.hub.BroadcastViewState(tripID, state)
		},
		Logger: s.log,
	})

	flightFeed := feeds.NewFlightFeed(source, 0, eng.FlightsLoading, eng.FlightsUpdated, s.log)
	tripFeed := feeds.NewTripFeed(source, tripID, 0, func(res models.TripResult) {
		eng.TripUpdated(res)
		// The flight query follows the trip's preferred date reactively.
		if res.Err == nil && res.Trip != nil {
			flightFeed.SetDate(res.Trip.PreferredDate)
		}
	}, s.log)

	sess := &session{
		engine:     eng,
		tripFeed:   tripFeed,
		flightFeed: flightFeed,
		cancel:     cancel,
	}
	eng.SetRefresher(sess)

	go tripFeed.Run(ctx)
	go flightFeed.Run(ctx)
	return sess
}

func (s *Service) writer() engine.TripWriter {
	if s.temporal != nil {
		return &temporalWriter{client: s.temporal}
	}
	return &directWriter{repo: s.repo}
}

type notifierFunc func(models.Notification)

func (f notifierFunc) Notify(n models.Notification) { f(n) }

type navigatorFunc func(models.RecordRef)

func (f navigatorFunc) NavigateTo(ref models.RecordRef) { f(ref) }
