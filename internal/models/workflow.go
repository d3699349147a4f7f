package models

// TripWriteInput is the input for the durable trip write workflow. Fields is
// a partial field map; a nil value clears the field.
type TripWriteInput struct {
	TripID string                 `json:"tripId"`
	Fields map[string]interface{} `json:"fields"`
}

// TripWriteResult reports what the write replaced, so the workflow can kick
// off downstream automation for cleared assignments.
type TripWriteResult struct {
	PreviousFlightID string `json:"previousFlightId,omitempty"`
	ContactID        string `json:"contactId,omitempty"`
}

// VoidTicketsInput is the input for the ticket voiding activity
type VoidTicketsInput struct {
	FlightID  string `json:"flightId"`
	ContactID string `json:"contactId"`
}

// ClearsAssignedFlight reports whether the field map clears the trip's
// assigned flight.
func (in TripWriteInput) ClearsAssignedFlight() bool {
	v, ok := in.Fields[TripFieldAssignedFlight]
	if !ok {
		return false
	}
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
