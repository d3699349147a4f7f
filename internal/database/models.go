package database

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a trip record in the database
type Trip struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	PreferredDate    *time.Time `json:"preferredDate,omitempty"`
	AssignedFlightID *uuid.UUID `json:"assignedFlightId,omitempty"`
	ContactID        *uuid.UUID `json:"contactId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Flight represents a flight in the database
type Flight struct {
	ID             uuid.UUID `json:"id"`
	FlightNumber   string    `json:"flightNumber"`
	Name           string    `json:"name"`
	DepartureTime  time.Time `json:"departureTime"`
	SeatsRemaining int       `json:"seatsRemaining"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusIssued TicketStatus = "issued"
	TicketStatusVoid   TicketStatus = "void"
)

// Ticket represents a ticket in the database
type Ticket struct {
	ID        uuid.UUID    `json:"id"`
	FlightID  uuid.UUID    `json:"flightId"`
	ContactID uuid.UUID    `json:"contactId"`
	Status    TicketStatus `json:"status"`
	IssuedAt  time.Time    `json:"issuedAt"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
