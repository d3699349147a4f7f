// Package format holds the pure presentation formatting used by the flight
// assignment views.
package format

import (
	"fmt"
	"time"
)

const (
	dateLayout      = "January 2, 2006"
	departureLayout = "Mon, Jan 2 at 3:04 PM"
)

// Placeholder text shown while an assigned flight is not present in the
// candidate set yet.
const (
	PlaceholderFlightName = "Selected Flight"
	PlaceholderDeparture  = "Loading..."
)

// Date renders a trip's preferred date, or an empty string when unset.
func Date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// Departure renders a flight's departure timestamp.
func Departure(t time.Time) string {
	return t.Format(departureLayout)
}

// CapacityLabel derives the user-facing remaining-capacity label.
func CapacityLabel(seats int) string {
	switch {
	case seats <= 0:
		return "Sold out"
	case seats == 1:
		return "1 seat left"
	default:
		return fmt.Sprintf("%d seats left", seats)
	}
}
