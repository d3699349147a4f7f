package engine

import (
	"context"

	"github.com/kerov/travel-force/internal/format"
	"github.com/kerov/travel-force/internal/models"
)

// recomputeCurrentFlightLocked derives the current flight view from the trip
// snapshot and the candidate set. Idempotent: unchanged inputs produce an
// identical result.
func (e *Engine) recomputeCurrentFlightLocked() {
	if !e.trip.HasAssignedFlight() {
		e.current = nil
		return
	}

	id := e.trip.AssignedFlightID
	for i := range e.flights {
		if e.flights[i].ID == id {
			e.current = &models.CurrentFlight{
				ID:                 id,
				Name:               e.flights[i].Name,
				FormattedDeparture: e.flights[i].FormattedDeparture,
			}
			return
		}
	}

	// Assigned but not in the candidate set: either the list has not loaded
	// yet or the flight departs outside the queried preferred date.
	e.current = &models.CurrentFlight{
		ID:                 id,
		Name:               format.PlaceholderFlightName,
		FormattedDeparture: format.PlaceholderDeparture,
		Loading:            true,
	}
}

// recomputeCurrentTicketLocked re-keys the current ticket to the trip's
// (flight, contact) pair. When both keys are present it returns the lookup to
// launch; the caller runs it off the lock. A lookup result only lands if its
// key still matches the current pair, so a slow lookup for a replaced pair
// can never clobber the newer ticket state.
func (e *Engine) recomputeCurrentTicketLocked() func() {
	var key ticketKey
	if e.trip != nil {
		key = ticketKey{flightID: e.trip.AssignedFlightID, contactID: e.trip.ContactID}
	}
	e.ticketKey = key

	if key.flightID == "" || key.contactID == "" {
		e.ticket = nil
		return nil
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), ticketLookupTimeout)
		defer cancel()

		ticket, err := e.tickets.FindTicket(ctx, key.flightID, key.contactID)
		e.applyTicketResult(key, ticket, err)
	}
}

// applyTicketResult stores a completed lookup, unless the current pair has
// moved on since the lookup started. Lookup failures resolve to "no ticket":
// absence is a normal state and is never escalated to the user.
func (e *Engine) applyTicketResult(key ticketKey, ticket *models.Ticket, err error) {
	e.mu.Lock()
	if key != e.ticketKey {
		e.mu.Unlock()
		e.log.Debug().
			Str("flightId", key.flightID).
			Msg("discarding stale ticket lookup")
		return
	}
	if err != nil {
		e.log.Error().Err(err).Str("flightId", key.flightID).Msg("ticket lookup failed")
		e.ticket = nil
	} else {
		e.ticket = ticket
	}
	e.mu.Unlock()
	e.publish()
}
