package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tripboard/internal/domain"
)

// LayerRequest is the body of POST /custom-map/layers.
type LayerRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	IconDataURL string `json:"iconDataUrl,omitempty"`
}

// MarkerRequest is the body of POST /custom-map/markers.
type MarkerRequest struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	LayerID string  `json:"layerId,omitempty"`
	Desc    string  `json:"desc,omitempty"`
}

// GetCustomMap handles GET /custom-map.
func (s *Server) GetCustomMap(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.CustomMap.Get(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "custom map", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// CreateLayer handles POST /custom-map/layers.
func (s *Server) CreateLayer(w http.ResponseWriter, r *http.Request) {
	var body LayerRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	l, err := s.svc.CustomMap.AddLayer(r.Context(), domain.MapLayer{
		Name:        body.Name,
		Color:       body.Color,
		IconDataURL: body.IconDataURL,
	})
	if err != nil {
		s.writeServiceError(w, r, "layer", err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// DeleteLayer handles DELETE /custom-map/layers/{id}. Markers on the layer
// are removed with it.
func (s *Server) DeleteLayer(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.CustomMap.RemoveLayer(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, "layer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateMarker handles POST /custom-map/markers.
func (s *Server) CreateMarker(w http.ResponseWriter, r *http.Request) {
	var body MarkerRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	m, err := s.svc.CustomMap.AddMarker(r.Context(), domain.MapMarker{
		Name:    body.Name,
		Lat:     body.Lat,
		Lng:     body.Lng,
		LayerID: body.LayerID,
		Desc:    body.Desc,
	})
	if err != nil {
		s.writeServiceError(w, r, "marker", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// DeleteMarker handles DELETE /custom-map/markers/{id}.
func (s *Server) DeleteMarker(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.CustomMap.RemoveMarker(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, "marker", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
