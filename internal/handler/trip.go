package handler

import (
	"net/http"

	"github.com/pkordes/tripboard/internal/domain"
)

// TripRequest is the body of PUT /trip. Blank fields keep their current
// value.
type TripRequest struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
}

// GetTrip handles GET /trip.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	h, err := s.svc.Trip.Header(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// UpdateTrip handles PUT /trip.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	h, err := s.svc.Trip.SetHeader(r.Context(), tripRequestToHeader(body))
	if err != nil {
		s.writeServiceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func tripRequestToHeader(body TripRequest) domain.TripHeader {
	return domain.TripHeader{Headline: body.Headline, Subheadline: body.Subheadline}
}
