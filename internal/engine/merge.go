package engine

import "github.com/kerov/travel-force/internal/models"

// TripUpdated accepts one delivery from the trip record feed. On success the
// snapshot is replaced wholesale and the derived views recompute; on error
// the last known snapshot is retained and the feed's own cadence is the
// retry.
func (e *Engine) TripUpdated(res models.TripResult) {
	if res.Err != nil {
		e.log.Error().Err(res.Err).Msg("trip fetch failed")
		return
	}

	e.mu.Lock()
	e.trip = res.Trip
	e.recomputeCurrentFlightLocked()
	lookup := e.recomputeCurrentTicketLocked()
	e.mu.Unlock()

	if lookup != nil {
		go lookup()
	}
	e.publish()
}

// FlightsLoading marks a blocking flight list fetch as in progress. The feed
// calls it before each query so the grid is hidden while results are stale.
func (e *Engine) FlightsLoading() {
	e.mu.Lock()
	e.busy = true
	e.mu.Unlock()
	e.publish()
}

// FlightsUpdated accepts one delivery from the flight list feed. The
// candidate set is replaced wholesale on success and retained on error;
// either way the fetch has terminated, so the busy flag clears. Flight feed
// failures are surfaced to the user, unlike trip feed failures, because they
// leave the grid empty with no other explanation.
func (e *Engine) FlightsUpdated(res models.FlightsResult) {
	if res.Err != nil {
		e.log.Error().Err(res.Err).Msg("flight list fetch failed")
		e.notify("Error loading flights", res.Err.Error(), models.SeverityError)

		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
		e.publish()
		return
	}

	e.mu.Lock()
	e.flights = res.Flights
	e.busy = false
	e.recomputeCurrentFlightLocked()
	e.mu.Unlock()
	e.publish()
}
