package domain

// Stay is one accommodation booking.
// Dates are ISO calendar dates (YYYY-MM-DD); empty means unknown.
type Stay struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	CheckIn  string `json:"checkin,omitempty"`
	CheckOut string `json:"checkout,omitempty"`
	Notes    string `json:"notes,omitempty"`
}
