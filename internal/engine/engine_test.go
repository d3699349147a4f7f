package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerov/travel-force/internal/format"
	"github.com/kerov/travel-force/internal/models"
)

// eventLog records the order of writer and clock calls across fakes.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeWriter struct {
	log   *eventLog
	mu    sync.Mutex
	calls []map[string]interface{}
	errs  map[int]error // call index -> error
}

func (w *fakeWriter) UpdateTrip(_ context.Context, _ string, fields map[string]interface{}) error {
	w.mu.Lock()
	idx := len(w.calls)
	w.calls = append(w.calls, fields)
	err := w.errs[idx]
	w.mu.Unlock()

	if w.log != nil {
		v := fields[models.TripFieldAssignedFlight]
		if v == nil {
			w.log.add("write:clear")
		} else {
			w.log.add(fmt.Sprintf("write:%v", v))
		}
	}
	return err
}

func (w *fakeWriter) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.calls)
}

type fakeClock struct {
	log    *eventLog
	mu     sync.Mutex
	sleeps []time.Duration
	err    error
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	if c.log != nil {
		c.log.add("sleep:" + d.String())
	}
	return c.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (n *fakeNotifier) Notify(note models.Notification) {
	n.mu.Lock()
	n.notes = append(n.notes, note)
	n.mu.Unlock()
}

func (n *fakeNotifier) all() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Notification(nil), n.notes...)
}

type fakeRefresher struct {
	mu      sync.Mutex
	trips   int
	flights int
}

func (r *fakeRefresher) RefreshTrip() {
	r.mu.Lock()
	r.trips++
	r.mu.Unlock()
}

func (r *fakeRefresher) RefreshFlights() {
	r.mu.Lock()
	r.flights++
	r.mu.Unlock()
}

func (r *fakeRefresher) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trips, r.flights
}

// gatedTickets blocks each lookup on a per-flight gate channel when one is
// registered, so tests control completion order.
type gatedTickets struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	results map[string]*models.Ticket
	errs    map[string]error
	lookups int
}

func (g *gatedTickets) FindTicket(_ context.Context, flightID, _ string) (*models.Ticket, error) {
	g.mu.Lock()
	g.lookups++
	gate := g.gates[flightID]
	result := g.results[flightID]
	err := g.errs[flightID]
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return result, err
}

func (g *gatedTickets) lookupCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lookups
}

type harness struct {
	engine    *Engine
	writer    *fakeWriter
	clock     *fakeClock
	notifier  *fakeNotifier
	refresher *fakeRefresher
	tickets   *gatedTickets
	events    *eventLog
}

func newHarness(tripID string) *harness {
	events := &eventLog{}
	h := &harness{
		writer:    &fakeWriter{log: events, errs: map[int]error{}},
		clock:     &fakeClock{log: events},
		notifier:  &fakeNotifier{},
		refresher: &fakeRefresher{},
		tickets: &gatedTickets{
			gates:   map[string]chan struct{}{},
			results: map[string]*models.Ticket{},
			errs:    map[string]error{},
		},
		events: events,
	}
	h.engine = New(Config{
		TripID:    tripID,
		Writer:    h.writer,
		Tickets:   h.tickets,
		Notifier:  h.notifier,
		Refresher: h.refresher,
		Clock:     h.clock,
		Logger:    zerolog.Nop(),
	})
	return h
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func tripWith(assigned, contact string) *models.Trip {
	return &models.Trip{
		ID:               "trip-1",
		Name:             "Trip 1",
		PreferredDate:    datePtr(2024, time.June, 10),
		AssignedFlightID: assigned,
		ContactID:        contact,
	}
}

func candidates(ids ...string) []models.Flight {
	out := make([]models.Flight, 0, len(ids))
	for i, id := range ids {
		out = append(out, models.Flight{
			ID:                 id,
			FlightNumber:       fmt.Sprintf("TF%03d", i+1),
			Name:               "Flight " + id,
			DepartureTime:      time.Date(2024, time.June, 10, 8+i, 0, 0, 0, time.UTC),
			FormattedDeparture: fmt.Sprintf("Mon, Jun 10 at %d:00 AM", 8+i),
			SeatsRemaining:     10,
			CapacityLabel:      "10 seats left",
		})
	}
	return out
}

// prime delivers both feeds so the engine leaves its initial loading state.
func (h *harness) prime(trip *models.Trip, flights []models.Flight) {
	h.engine.TripUpdated(models.TripResult{Trip: trip})
	h.engine.FlightsUpdated(models.FlightsResult{Flights: flights})
}

func TestCurrentFlight_AbsentWhenNoAssignment(t *testing.T) {
	h := newHarness("trip-1")

	// Flights can arrive before the trip; derived state must not block on
	// both sources being ready.
	h.engine.FlightsUpdated(models.FlightsResult{Flights: candidates("f1", "f2")})
	assert.Nil(t, h.engine.Snapshot().CurrentFlight)

	h.engine.TripUpdated(models.TripResult{Trip: tripWith("", "")})
	assert.Nil(t, h.engine.Snapshot().CurrentFlight)
}

func TestCurrentFlight_MatchedCandidate(t *testing.T) {
	h := newHarness("trip-1")
	h.prime(tripWith("f2", ""), candidates("f1", "f2"))

	current := h.engine.Snapshot().CurrentFlight
	require.NotNil(t, current)
	assert.Equal(t, "f2", current.ID)
	assert.Equal(t, "Flight f2", current.Name)
	assert.False(t, current.Loading)
	assert.NotEmpty(t, current.FormattedDeparture)
}

func TestCurrentFlight_PlaceholderWhenNotInCandidates(t *testing.T) {
	h := newHarness("trip-1")

	// Trip arrives first: assigned flight with no candidate list yet.
	h.engine.TripUpdated(models.TripResult{Trip: tripWith("f9", "")})

	current := h.engine.Snapshot().CurrentFlight
	require.NotNil(t, current)
	assert.Equal(t, "f9", current.ID)
	assert.Equal(t, format.PlaceholderFlightName, current.Name)
	assert.Equal(t, format.PlaceholderDeparture, current.FormattedDeparture)
	assert.True(t, current.Loading)

	// Candidate list for the preferred date does not contain the assigned
	// flight either; the placeholder persists.
	h.engine.FlightsUpdated(models.FlightsResult{Flights: candidates("f1", "f2")})
	current = h.engine.Snapshot().CurrentFlight
	require.NotNil(t, current)
	assert.True(t, current.Loading)
}

func TestTripFetchError_RetainsLastKnownGood(t *testing.T) {
	h := newHarness("trip-1")
	h.prime(tripWith("f1", ""), candidates("f1"))

	h.engine.TripUpdated(models.TripResult{Err: errors.New("record unavailable")})

	snap := h.engine.Snapshot()
	require.NotNil(t, snap.CurrentFlight)
	assert.Equal(t, "f1", snap.CurrentFlight.ID)
	// Trip feed errors are logged, not toasted.
	assert.Empty(t, h.notifier.all())
}

func TestFlightsFetchError_RetainsListAndNotifies(t *testing.T) {
	h := newHarness("trip-1")
	h.prime(tripWith("", ""), candidates("f1", "f2"))

	h.engine.FlightsLoading()
	h.engine.FlightsUpdated(models.FlightsResult{Err: errors.New("query timed out")})

	snap := h.engine.Snapshot()
	assert.Len(t, snap.Flights, 2)
	assert.False(t, snap.IsLoading, "a failed fetch still terminates")

	notes := h.notifier.all()
	require.Len(t, notes, 1)
	assert.Equal(t, models.SeverityError, notes[0].Severity)
	assert.Contains(t, notes[0].Message, "query timed out")
}

func TestGridClass(t *testing.T) {
	h := newHarness("trip-1")

	h.prime(tripWith("", ""), candidates("f1", "f2", "f3"))
	assert.Equal(t, models.GridClassCompact, h.engine.Snapshot().GridClass)

	h.engine.FlightsUpdated(models.FlightsResult{Flights: candidates("f1", "f2", "f3", "f4")})
	assert.Equal(t, models.GridClassScrollable, h.engine.Snapshot().GridClass)
}

func TestShowFlights(t *testing.T) {
	h := newHarness("trip-1")

	// Initial state: busy until the first flight delivery.
	assert.False(t, h.engine.Snapshot().ShowFlights)

	h.prime(tripWith("", ""), candidates("f1"))
	assert.True(t, h.engine.Snapshot().ShowFlights)
	assert.True(t, h.engine.Snapshot().HasFlights)

	// A blocking fetch hides the grid again.
	h.engine.FlightsLoading()
	assert.False(t, h.engine.Snapshot().ShowFlights)
	h.engine.FlightsUpdated(models.FlightsResult{Flights: nil})
	assert.True(t, h.engine.Snapshot().ShowFlights)
	assert.False(t, h.engine.Snapshot().HasFlights)

	// No preferred date, no grid.
	trip := tripWith("", "")
	trip.PreferredDate = nil
	h.engine.TripUpdated(models.TripResult{Trip: trip})
	assert.False(t, h.engine.Snapshot().ShowFlights)
	assert.Equal(t, "", h.engine.Snapshot().PreferredDate)
}

func TestPreferredDateFormatting(t *testing.T) {
	h := newHarness("trip-1")
	h.prime(tripWith("", ""), nil)

	assert.Equal(t, "June 10, 2024", h.engine.Snapshot().PreferredDate)
}

func TestTicket_AbsentWhenKeyIncomplete(t *testing.T) {
	h := newHarness("trip-1")

	// Assigned flight but no contact: no lookup at all.
	h.prime(tripWith("f1", ""), candidates("f1"))
	assert.Nil(t, h.engine.Snapshot().CurrentTicket)
	assert.Equal(t, 0, h.tickets.lookupCount())
}

func TestTicket_ResolvedForCurrentPair(t *testing.T) {
	h := newHarness("trip-1")
	issued := &models.Ticket{ID: "t1", FlightID: "f1", ContactID: "c1", Status: models.TicketStatusIssued}
	h.tickets.results["f1"] = issued

	h.prime(tripWith("f1", "c1"), candidates("f1"))

	assert.Eventually(t, func() bool {
		ticket := h.engine.Snapshot().CurrentTicket
		return ticket != nil && ticket.ID == "t1"
	}, time.Second, 5*time.Millisecond)
}

func TestTicket_LookupFailureResolvesToAbsent(t *testing.T) {
	h := newHarness("trip-1")
	h.tickets.errs["f1"] = errors.New("lookup failed")

	h.prime(tripWith("f1", "c1"), candidates("f1"))

	assert.Eventually(t, func() bool {
		return h.tickets.lookupCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, h.engine.Snapshot().CurrentTicket)
	// Fail-soft: a missing ticket is not a user-visible error.
	assert.Empty(t, h.notifier.all())
}

func TestTicket_StaleLookupDiscarded(t *testing.T) {
	h := newHarness("trip-1")

	slowGate := make(chan struct{})
	h.tickets.gates["f1"] = slowGate
	h.tickets.results["f1"] = &models.Ticket{ID: "stale", FlightID: "f1", ContactID: "c1"}
	h.tickets.results["f2"] = &models.Ticket{ID: "fresh", FlightID: "f2", ContactID: "c1"}

	// Start a lookup for (f1, c1) that will hang on the gate.
	h.prime(tripWith("f1", "c1"), candidates("f1", "f2"))

	// The pair moves on to (f2, c1) and its lookup completes first.
	h.engine.TripUpdated(models.TripResult{Trip: tripWith("f2", "c1")})
	assert.Eventually(t, func() bool {
		ticket := h.engine.Snapshot().CurrentTicket
		return ticket != nil && ticket.ID == "fresh"
	}, time.Second, 5*time.Millisecond)

	// Now let the stale lookup finish; it must not overwrite the fresh one.
	close(slowGate)
	assert.Eventually(t, func() bool {
		return h.tickets.lookupCount() == 2
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	ticket := h.engine.Snapshot().CurrentTicket
	require.NotNil(t, ticket)
	assert.Equal(t, "fresh", ticket.ID)
}

func TestNavigateToTicket(t *testing.T) {
	h := newHarness("trip-1")
	issued := &models.Ticket{ID: "t1", FlightID: "f1", ContactID: "c1", Status: models.TicketStatusIssued}
	h.tickets.results["f1"] = issued
	h.prime(tripWith("f1", "c1"), candidates("f1"))

	assert.Eventually(t, func() bool {
		return h.engine.Snapshot().CurrentTicket != nil
	}, time.Second, 5*time.Millisecond)

	ref, err := h.engine.NavigateToTicket()
	require.NoError(t, err)
	assert.Equal(t, models.RecordRef{ID: "t1", Type: "ticket"}, *ref)
}

func TestNavigateToTicket_NoTicket(t *testing.T) {
	h := newHarness("trip-1")
	h.prime(tripWith("", ""), nil)

	_, err := h.engine.NavigateToTicket()
	assert.ErrorIs(t, err, ErrNoTicket)
}
