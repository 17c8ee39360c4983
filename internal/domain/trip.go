// Package domain contains the core data types for the trip board.
// Records are immutable values; collections are replaced wholesale on every
// write. This package only depends on uuid and decimal.
package domain

import "github.com/google/uuid"

// Collection keys. Each key names one JSON document in the store.
const (
	KeyStays         = "accommodations"
	KeyItinerary     = "itinerary"
	KeyBudget        = "budget"
	KeyFlights       = "flights"
	KeyWeatherPlaces = "weather-places"
	KeyMapGeoJSON    = "map-geojson"
	KeyCustomMap     = "custom-map"
	KeyTrip          = "trip"
)

// TripHeader is the headline shown above the board.
type TripHeader struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline,omitempty"`
}

// NewID returns a fresh record identifier.
// IDs are opaque strings so documents written by older clients stay loadable.
func NewID() string {
	return uuid.NewString()
}
