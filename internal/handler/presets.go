package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListPresets handles GET /presets.
func (s *Server) ListPresets(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.Presets.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "preset", err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// ApplyPreset handles POST /presets/{name}/apply. The report lists every
// command; a failed command does not change the status code, which stays
// 200 as long as the preset itself could be loaded.
func (s *Server) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Presets.Apply(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeServiceError(w, r, "preset", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
