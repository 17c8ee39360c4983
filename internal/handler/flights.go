package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tripboard/internal/domain"
)

// FlightRequest is the body of POST /flights.
type FlightRequest struct {
	Airline      string `json:"airline"`
	FlightNumber string `json:"flightNumber"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Depart       string `json:"depart,omitempty"`
	Arrive       string `json:"arrive,omitempty"`
	DepartTZ     string `json:"departTZ,omitempty"`
	ArriveTZ     string `json:"arriveTZ,omitempty"`
}

// FlightLookupRequest is the body of POST /flights/lookup, e.g.
// {"airlineCode":"TP","number":"1689"}.
type FlightLookupRequest struct {
	AirlineCode string `json:"airlineCode"`
	Number      string `json:"number"`
}

// FlightView is a flight plus its times rendered in each airport's zone.
type FlightView struct {
	domain.Flight
	LocalDepart string `json:"localDepart"`
	LocalArrive string `json:"localArrive"`
}

// FlightCreated is the body answered by POST /flights.
type FlightCreated struct {
	Flight FlightView `json:"flight"`
	Added  bool       `json:"added"`
}

// DedupeResponse is the body of POST /flights/dedupe.
type DedupeResponse struct {
	Removed int `json:"removed"`
}

// ListFlights handles GET /flights.
func (s *Server) ListFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := s.svc.Flights.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "flight", err)
		return
	}
	writeJSON(w, http.StatusOK, flightViews(flights))
}

// CreateFlight handles POST /flights. A flight already tracked under the
// same airline and number answers 200 with added=false.
func (s *Server) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var body FlightRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	f, added, err := s.svc.Flights.Add(r.Context(), domain.Flight{
		Airline:      body.Airline,
		FlightNumber: body.FlightNumber,
		From:         body.From,
		To:           body.To,
		Depart:       body.Depart,
		Arrive:       body.Arrive,
		DepartTZ:     body.DepartTZ,
		ArriveTZ:     body.ArriveTZ,
	})
	if err != nil {
		s.writeServiceError(w, r, "flight", err)
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	writeJSON(w, status, FlightCreated{Flight: toFlightView(f), Added: added})
}

// LookupFlight handles POST /flights/lookup.
func (s *Server) LookupFlight(w http.ResponseWriter, r *http.Request) {
	var body FlightLookupRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	result, err := s.svc.Flights.Lookup(r.Context(), body.AirlineCode, body.Number)
	if err != nil {
		s.writeServiceError(w, r, "flight", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RefreshFlights handles POST /flights/refresh.
func (s *Server) RefreshFlights(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Flights.RefreshAll(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "flight", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DedupeFlights handles POST /flights/dedupe.
func (s *Server) DedupeFlights(w http.ResponseWriter, r *http.Request) {
	removed, err := s.svc.Flights.Dedupe(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "flight", err)
		return
	}
	writeJSON(w, http.StatusOK, DedupeResponse{Removed: removed})
}

// DeleteFlight handles DELETE /flights/{id}.
func (s *Server) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Flights.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, "flight", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearFlights handles DELETE /flights.
func (s *Server) ClearFlights(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Flights.Clear(r.Context()); err != nil {
		s.writeServiceError(w, r, "flight", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toFlightView(f domain.Flight) FlightView {
	return FlightView{Flight: f, LocalDepart: f.LocalDepart(), LocalArrive: f.LocalArrive()}
}

func flightViews(flights []domain.Flight) []FlightView {
	out := make([]FlightView, 0, len(flights))
	for _, f := range flights {
		out = append(out, toFlightView(f))
	}
	return out
}
