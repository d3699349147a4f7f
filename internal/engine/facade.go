package engine

import (
	"github.com/kerov/travel-force/internal/format"
	"github.com/kerov/travel-force/internal/models"
)

// compactGridLimit is the candidate count above which the grid switches from
// the compact layout to a scrollable one.
const compactGridLimit = 3

func gridClass(candidates int) string {
	if candidates > compactGridLimit {
		return models.GridClassScrollable
	}
	return models.GridClassCompact
}

// snapshotLocked assembles the read-only property bag from current state.
// Pure recomputation; callers hold e.mu.
func (e *Engine) snapshotLocked() models.ViewState {
	var preferred string
	hasDate := false
	if e.trip != nil && e.trip.PreferredDate != nil {
		preferred = format.Date(e.trip.PreferredDate)
		hasDate = true
	}

	return models.ViewState{
		TripID:        e.tripID,
		PreferredDate: preferred,
		Flights:       e.flights,
		ShowFlights:   e.tripID != "" && hasDate && !e.busy,
		GridClass:     gridClass(len(e.flights)),
		HasFlights:    len(e.flights) > 0,
		IsLoading:     e.busy,
		CurrentFlight: e.current,
		CurrentTicket: e.ticket,
	}
}
