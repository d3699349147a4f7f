package models

import "time"

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusIssued TicketStatus = "issued"
	TicketStatusVoid   TicketStatus = "void"
)

// Ticket evidences that a contact holds a seat on a specific flight.
type Ticket struct {
	ID        string       `json:"id"`
	FlightID  string       `json:"flightId"`
	ContactID string       `json:"contactId"`
	Status    TicketStatus `json:"status"`
	IssuedAt  time.Time    `json:"issuedAt"`
}
