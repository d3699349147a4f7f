package engine

import (
	"context"

	"github.com/kerov/travel-force/internal/models"
)

// SelectFlight assigns the target flight to the trip. Replacing a different
// assignment is a two-phase write: clear the field, wait out the settling
// delay, then write the target. Selecting the already-assigned flight is
// still a single write plus refresh, so the action stays idempotent for the
// caller. Returns ErrBusy while another mutation or blocking fetch is in
// flight.
func (e *Engine) SelectFlight(ctx context.Context, flightID string) error {
	current, err := e.begin()
	if err != nil {
		return err
	}
	defer e.end()

	if current != "" && current != flightID {
		if err := e.clearWrite(ctx); err != nil {
			return err
		}
		// Hold off the new assignment until the downstream reaction to the
		// clear (ticket voiding) has settled.
		if err := e.clock.Sleep(ctx, SettlingDelay); err != nil {
			e.fail("assign flight", err)
			return err
		}
	}

	fields := map[string]interface{}{models.TripFieldAssignedFlight: flightID}
	if err := e.writer.UpdateTrip(ctx, e.tripID, fields); err != nil {
		e.fail("assign flight", err)
		return err
	}

	e.notify("Success", "Flight assigned to trip", models.SeveritySuccess)
	e.refresh()
	return nil
}

// ClearFlight removes the trip's assigned flight with a single write.
func (e *Engine) ClearFlight(ctx context.Context) error {
	if _, err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if err := e.clearWrite(ctx); err != nil {
		return err
	}

	e.notify("Success", "Flight removed from trip", models.SeveritySuccess)
	e.refresh()
	return nil
}

// NavigateToTicket asks the navigation sink to open the current ticket's
// record page and returns the target reference.
func (e *Engine) NavigateToTicket() (*models.RecordRef, error) {
	e.mu.Lock()
	ticket := e.ticket
	e.mu.Unlock()

	if ticket == nil {
		return nil, ErrNoTicket
	}

	ref := models.RecordRef{ID: ticket.ID, Type: "ticket"}
	if e.navigator != nil {
		e.navigator.NavigateTo(ref)
	}
	return &ref, nil
}

// begin acquires the busy flag, which doubles as the mutual exclusion gate
// for the mutation sequence, and reports the currently assigned flight.
func (e *Engine) begin() (current string, err error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return "", ErrBusy
	}
	e.busy = true
	if e.trip != nil {
		current = e.trip.AssignedFlightID
	}
	e.mu.Unlock()
	e.publish()
	return current, nil
}

// end releases the busy flag. Deferred so it runs on every exit path.
func (e *Engine) end() {
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
	e.publish()
}

func (e *Engine) clearWrite(ctx context.Context) error {
	fields := map[string]interface{}{models.TripFieldAssignedFlight: nil}
	if err := e.writer.UpdateTrip(ctx, e.tripID, fields); err != nil {
		e.fail("clear flight", err)
		return err
	}
	return nil
}

// refresh forces both feeds to re-deliver after a successful write. The
// arrival order of the two refreshes is not assumed; the merge layer treats
// each source independently.
func (e *Engine) refresh() {
	e.mu.Lock()
	r := e.refresher
	e.mu.Unlock()
	if r == nil {
		return
	}
	r.RefreshTrip()
	r.RefreshFlights()
}

func (e *Engine) fail(op string, err error) {
	e.log.Error().Err(err).Msg(op + " failed")
	e.notify("Error updating trip", err.Error(), models.SeverityError)
}
