// Package feeds implements the two reactive fetch feeds behind the
// assignment engine: the trip record feed and the flight list feed. Each
// delivers its latest result on a cadence and on demand; errors are delivered
// as-is and the next cycle is the retry.
package feeds

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kerov/travel-force/internal/models"
)

const (
	// DefaultInterval is the background re-fetch cadence.
	DefaultInterval = 30 * time.Second

	fetchTimeout = 10 * time.Second
)

// TripSource fetches one trip record.
type TripSource interface {
	FetchTrip(ctx context.Context, tripID string) (*models.Trip, error)
}

// FlightSource fetches the flight candidates for a preferred date.
type FlightSource interface {
	FetchFlights(ctx context.Context, date time.Time) ([]models.Flight, error)
}

// TripFeed periodically delivers the trip record and supports forced
// re-delivery. Refresh never blocks; requests made while a fetch is in
// flight coalesce into at most one follow-up fetch.
type TripFeed struct {
	log      zerolog.Logger
	source   TripSource
	tripID   string
	interval time.Duration
	refresh  chan struct{}
	deliver  func(models.TripResult)
}

// NewTripFeed creates a trip feed delivering into the given callback.
func NewTripFeed(source TripSource, tripID string, interval time.Duration, deliver func(models.TripResult), log zerolog.Logger) *TripFeed {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &TripFeed{
		log:      log.With().Str("component", "trip-feed").Str("tripId", tripID).Logger(),
		source:   source,
		tripID:   tripID,
		interval: interval,
		refresh:  make(chan struct{}, 1),
		deliver:  deliver,
	}
}

// Refresh requests an immediate re-fetch.
func (f *TripFeed) Refresh() {
	select {
	case f.refresh <- struct{}{}:
	default:
	}
}

// Run fetches once immediately, then on every tick or refresh request, until
// the context is cancelled.
func (f *TripFeed) Run(ctx context.Context) {
	f.fetch(ctx)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-f.refresh:
		}
		f.fetch(ctx)
	}
}

func (f *TripFeed) fetch(ctx context.Context) {
	fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	trip, err := f.source.FetchTrip(fctx, f.tripID)
	if err != nil {
		f.log.Warn().Err(err).Msg("trip fetch failed")
		f.deliver(models.TripResult{Err: err})
		return
	}
	f.deliver(models.TripResult{Trip: trip})
}

// FlightFeed delivers the flight candidates for the trip's preferred date.
// The date is reactive: SetDate re-queries when it changes. Before each real
// query the feed signals loading so the consumer can gate interaction.
type FlightFeed struct {
	log       zerolog.Logger
	source    FlightSource
	interval  time.Duration
	kick      chan struct{}
	onLoading func()
	deliver   func(models.FlightsResult)

	mu   sync.Mutex
	date *time.Time
}

// NewFlightFeed creates a flight list feed delivering into the given
// callbacks.
func NewFlightFeed(source FlightSource, interval time.Duration, onLoading func(), deliver func(models.FlightsResult), log zerolog.Logger) *FlightFeed {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &FlightFeed{
		log:       log.With().Str("component", "flight-feed").Logger(),
		source:    source,
		interval:  interval,
		kick:      make(chan struct{}, 1),
		onLoading: onLoading,
		deliver:   deliver,
	}
}

// SetDate updates the queried preferred date and triggers a re-fetch when it
// changed.
func (f *FlightFeed) SetDate(date *time.Time) {
	f.mu.Lock()
	same := equalDates(f.date, date)
	f.date = date
	f.mu.Unlock()

	if !same {
		f.Refresh()
	}
}

// Refresh requests an immediate re-fetch.
func (f *FlightFeed) Refresh() {
	select {
	case f.kick <- struct{}{}:
	default:
	}
}

// Run fetches once immediately, then on every tick or refresh request, until
// the context is cancelled.
func (f *FlightFeed) Run(ctx context.Context) {
	f.fetch(ctx)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-f.kick:
		}
		f.fetch(ctx)
	}
}

func (f *FlightFeed) fetch(ctx context.Context) {
	f.mu.Lock()
	date := f.date
	f.mu.Unlock()

	// No preferred date means nothing to query: deliver an empty set so the
	// consumer is not left waiting on a fetch that will never run.
	if date == nil {
		f.deliver(models.FlightsResult{})
		return
	}

	if f.onLoading != nil {
		f.onLoading()
	}

	fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	flights, err := f.source.FetchFlights(fctx, *date)
	if err != nil {
		f.log.Warn().Err(err).Msg("flight list fetch failed")
		f.deliver(models.FlightsResult{Err: err})
		return
	}
	f.deliver(models.FlightsResult{Flights: flights})
}

func equalDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
