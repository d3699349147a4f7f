package models

import "time"

// Trip is the current known state of a trip record. It is replaced wholesale
// on each fetch delivery; the core never mutates it in place.
type Trip struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	PreferredDate    *time.Time `json:"preferredDate,omitempty"`
	AssignedFlightID string     `json:"assignedFlightId,omitempty"`
	ContactID        string     `json:"contactId,omitempty"`
}

// HasAssignedFlight reports whether the trip currently references a flight.
func (t *Trip) HasAssignedFlight() bool {
	return t != nil && t.AssignedFlightID != ""
}

// Writable trip field keys accepted by the record write primitive.
const (
	TripFieldAssignedFlight = "assigned_flight_id"
)

// TripResult is one delivery from the trip record feed: either a snapshot or
// the error that prevented one.
type TripResult struct {
	Trip *Trip
	Err  error
}
