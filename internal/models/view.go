package models

// Severity classifies a user-visible notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notification is a user-visible toast
type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// RecordRef identifies a record to navigate to
type RecordRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Density classes for the flight grid
const (
	GridClassCompact    = "compact"
	GridClassScrollable = "scrollable"
)

// ViewState is the reactive property bag consumed by the presentation layer.
// It is recomputed from the core's state on every change and pushed to
// subscribers whole.
type ViewState struct {
	TripID        string         `json:"tripId"`
	PreferredDate string         `json:"preferredDate"`
	Flights       []Flight       `json:"flights"`
	ShowFlights   bool           `json:"showFlights"`
	GridClass     string         `json:"gridClass"`
	HasFlights    bool           `json:"hasFlights"`
	IsLoading     bool           `json:"isLoading"`
	CurrentFlight *CurrentFlight `json:"currentFlight,omitempty"`
	CurrentTicket *Ticket        `json:"currentTicket,omitempty"`
}

// SelectFlightRequest is the body of a select-flight action
type SelectFlightRequest struct {
	FlightID string `json:"flightId"`
}
