package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// WeatherRequest is the body of POST /weather.
type WeatherRequest struct {
	Name string `json:"name"`
}

// ListWeather handles GET /weather.
func (s *Server) ListWeather(w http.ResponseWriter, r *http.Request) {
	places, err := s.svc.Weather.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "weather place", err)
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// CreateWeatherPlace handles POST /weather. A place the geocoder does not
// know is still stored, with its error set.
func (s *Server) CreateWeatherPlace(w http.ResponseWriter, r *http.Request) {
	var body WeatherRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	place, err := s.svc.Weather.Add(r.Context(), body.Name)
	if err != nil {
		s.writeServiceError(w, r, "weather place", err)
		return
	}
	writeJSON(w, http.StatusCreated, place)
}

// RefreshWeatherPlace handles POST /weather/{id}/refresh.
func (s *Server) RefreshWeatherPlace(w http.ResponseWriter, r *http.Request) {
	place, err := s.svc.Weather.Refresh(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "weather place", err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// DeleteWeatherPlace handles DELETE /weather/{id}.
func (s *Server) DeleteWeatherPlace(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Weather.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, "weather place", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearWeather handles DELETE /weather.
func (s *Server) ClearWeather(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Weather.Clear(r.Context()); err != nil {
		s.writeServiceError(w, r, "weather place", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
