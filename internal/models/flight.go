package models

import "time"

// Flight is one bookable flight candidate for a trip's preferred date.
// Instances are immutable once delivered; a new list fetch replaces the whole
// candidate set.
type Flight struct {
	ID                 string    `json:"id"`
	FlightNumber       string    `json:"flightNumber"`
	Name               string    `json:"name"`
	DepartureTime      time.Time `json:"departureTime"`
	SeatsRemaining     int       `json:"seatsRemaining"`
	FormattedDeparture string    `json:"formattedDeparture"`
	CapacityLabel      string    `json:"capacityLabel"`
}

// CurrentFlight is the derived view of the trip's assigned flight. When the
// assigned flight is not present in the candidate set yet, Loading is true
// and only ID carries real data.
type CurrentFlight struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	FormattedDeparture string `json:"formattedDeparture"`
	Loading            bool   `json:"loading"`
}

// FlightsResult is one delivery from the flight list feed.
type FlightsResult struct {
	Flights []Flight
	Err     error
}
