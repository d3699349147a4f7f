// Package engine implements the trip flight assignment core: it merges the
// trip record feed and the flight list feed into derived view state, and
// executes the assignment mutation sequence against the record write
// primitive.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kerov/travel-force/internal/models"
)

// SettlingDelay is the fixed wait between clearing an assignment and writing
// the replacement. Downstream automation reacts to the clear (ticket
// voiding); writing the new value immediately would race its side effects.
const SettlingDelay = 500 * time.Millisecond

const ticketLookupTimeout = 10 * time.Second

var (
	// ErrBusy is returned when an assignment action arrives while another
	// mutation or a blocking fetch is still in flight.
	ErrBusy = errors.New("assignment already in progress")
	// ErrNoTicket is returned by NavigateToTicket when no ticket is current.
	ErrNoTicket = errors.New("no ticket for the current flight")
)

// TripWriter applies a partial field update to a trip record. A nil field
// value clears the field.
type TripWriter interface {
	UpdateTrip(ctx context.Context, tripID string, fields map[string]interface{}) error
}

// TicketFinder looks up the issued ticket for a (flight, contact) pair.
// Implementations return (nil, nil) when no ticket exists; a non-nil error
// means the lookup itself failed.
type TicketFinder interface {
	FindTicket(ctx context.Context, flightID, contactID string) (*models.Ticket, error)
}

// Notifier delivers user-visible toasts.
type Notifier interface {
	Notify(n models.Notification)
}

// Navigator sends the user to another record page.
type Navigator interface {
	NavigateTo(ref models.RecordRef)
}

// Refresher forces the upstream feeds to re-fetch and re-deliver.
type Refresher interface {
	RefreshTrip()
	RefreshFlights()
}

// Clock abstracts the settling-delay sleep so tests can observe it.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Config wires an Engine to its collaborators.
type Config struct {
	TripID    string
	Writer    TripWriter
	Tickets   TicketFinder
	Notifier  Notifier
	Navigator Navigator
	Refresher Refresher
	Clock     Clock                  // defaults to a real clock
	OnChange  func(models.ViewState) // invoked after every state change
	Logger    zerolog.Logger
}

type ticketKey struct {
	flightID  string
	contactID string
}

// Engine holds the merged state for one trip and recomputes the derived
// views whenever either feed delivers. All fields under mu are single-owner:
// only the engine mutates them.
type Engine struct {
	log       zerolog.Logger
	tripID    string
	writer    TripWriter
	tickets   TicketFinder
	notifier  Notifier
	navigator Navigator
	refresher Refresher
	clock     Clock
	onChange  func(models.ViewState)

	mu        sync.Mutex
	trip      *models.Trip
	flights   []models.Flight
	current   *models.CurrentFlight
	ticket    *models.Ticket
	ticketKey ticketKey
	busy      bool
}

// New creates an Engine. The engine starts busy: the initial flight list
// fetch is still outstanding until the feed's first delivery.
func New(cfg Config) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Engine{
		log:       cfg.Logger.With().Str("component", "engine").Str("tripId", cfg.TripID).Logger(),
		tripID:    cfg.TripID,
		writer:    cfg.Writer,
		tickets:   cfg.Tickets,
		notifier:  cfg.Notifier,
		navigator: cfg.Navigator,
		refresher: cfg.Refresher,
		clock:     clock,
		onChange:  cfg.OnChange,
		busy:      true,
	}
}

// SetRefresher binds the feed refresher. The feeds need the engine to exist
// before they can be built, so this is wired after construction.
func (e *Engine) SetRefresher(r Refresher) {
	e.mu.Lock()
	e.refresher = r
	e.mu.Unlock()
}

// Snapshot returns the current view state.
func (e *Engine) Snapshot() models.ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// publish pushes a fresh snapshot to the subscriber, outside the lock.
func (e *Engine) publish() {
	if e.onChange == nil {
		return
	}
	e.mu.Lock()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.onChange(snap)
}

func (e *Engine) notify(title, message string, severity models.Severity) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(models.Notification{Title: title, Message: message, Severity: severity})
}
