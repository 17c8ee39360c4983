package handler

import "net/http"

// MyMapsRequest is the body of POST /map/mymaps. URL is a share link or a
// bare map id.
type MyMapsRequest struct {
	URL string `json:"url"`
}

// Map import sources accepted by POST /map/kml?source=.
const (
	sourceFile  = "file"
	sourcePaste = "paste"
)

// GetMap handles GET /map. An empty collection is returned when nothing was
// imported.
func (s *Server) GetMap(w http.ResponseWriter, r *http.Request) {
	fc, err := s.svc.Maps.Get(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "map", err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// ImportMapKML handles POST /map/kml. Uploaded files are annotated with
// style and layer hints; pasted KML (?source=paste) is converted as-is.
func (s *Server) ImportMapKML(w http.ResponseWriter, r *http.Request) {
	source, err := optionalQuery(r.URL.Query(), "source", sourceFile)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if source != sourceFile && source != sourcePaste {
		badRequest(w, "source must be file or paste")
		return
	}

	data, err := readUpload(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	fc, err := s.svc.Maps.ImportKML(r.Context(), data, source == sourceFile)
	if err != nil {
		s.writeServiceError(w, r, "map", err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// ImportMyMaps handles POST /map/mymaps.
func (s *Server) ImportMyMaps(w http.ResponseWriter, r *http.Request) {
	var body MyMapsRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	fc, err := s.svc.Maps.ImportMyMaps(r.Context(), body.URL)
	if err != nil {
		s.writeServiceError(w, r, "map", err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// GetLegend handles GET /map/legend.
func (s *Server) GetLegend(w http.ResponseWriter, r *http.Request) {
	legend, err := s.svc.Maps.Legend(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "map", err)
		return
	}
	writeJSON(w, http.StatusOK, legend)
}

// ClearMap handles DELETE /map.
func (s *Server) ClearMap(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Maps.Clear(r.Context()); err != nil {
		s.writeServiceError(w, r, "map", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
