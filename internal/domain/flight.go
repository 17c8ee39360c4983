package domain

// Flight is one flight segment. Depart and Arrive hold the timestamps as
// returned by the status provider; DepartTZ and ArriveTZ are IANA zone names.
type Flight struct {
	ID           string `json:"id"`
	Airline      string `json:"airline"`
	FlightNumber string `json:"flightNumber"`
	From         string `json:"from"`
	To           string `json:"to"`
	Depart       string `json:"depart"`
	Arrive       string `json:"arrive"`
	FlightIata   string `json:"flightIata,omitempty"`
	DepartTZ     string `json:"departTZ,omitempty"`
	ArriveTZ     string `json:"arriveTZ,omitempty"`
}
