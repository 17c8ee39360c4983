package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tripboard/internal/domain"
)

// StopRequest is the body of POST /itinerary.
type StopRequest struct {
	Date     string `json:"date"`
	Location string `json:"location"`
	Notes    string `json:"notes,omitempty"`
}

// ListStops handles GET /itinerary.
func (s *Server) ListStops(w http.ResponseWriter, r *http.Request) {
	stops, err := s.svc.Itinerary.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "stop", err)
		return
	}
	writeJSON(w, http.StatusOK, stops)
}

// ListDays handles GET /itinerary/days: stops grouped by their day label.
func (s *Server) ListDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.svc.Itinerary.Days(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "stop", err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// CreateStop handles POST /itinerary.
func (s *Server) CreateStop(w http.ResponseWriter, r *http.Request) {
	var body StopRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	stop, err := s.svc.Itinerary.Add(r.Context(), domain.Stop{
		Date:     body.Date,
		Location: body.Location,
		Notes:    body.Notes,
	})
	if err != nil {
		s.writeServiceError(w, r, "stop", err)
		return
	}
	writeJSON(w, http.StatusCreated, stop)
}

// ImportItineraryMarkdown handles POST /itinerary/import/markdown.
func (s *Server) ImportItineraryMarkdown(w http.ResponseWriter, r *http.Request) {
	doc, err := readUpload(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	result, err := s.svc.Itinerary.ImportMarkdown(r.Context(), string(doc))
	if err != nil {
		s.writeServiceError(w, r, "stop", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ImportItineraryKML handles POST /itinerary/import/kml.
func (s *Server) ImportItineraryKML(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	result, err := s.svc.Itinerary.ImportKML(r.Context(), data)
	if err != nil {
		s.writeServiceError(w, r, "stop", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteStop handles DELETE /itinerary/{id}.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Itinerary.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, "stop", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearStops handles DELETE /itinerary.
func (s *Server) ClearStops(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Itinerary.Clear(r.Context()); err != nil {
		s.writeServiceError(w, r, "stop", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
