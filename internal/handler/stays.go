package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/importer"
	"github.com/pkordes/tripboard/internal/service"
)

// StayRequest is the body of POST /stays.
type StayRequest struct {
	Name     string              `json:"name"`
	Address  string              `json:"address,omitempty"`
	CheckIn  *openapi_types.Date `json:"checkin,omitempty"`
	CheckOut *openapi_types.Date `json:"checkout,omitempty"`
	Notes    string              `json:"notes,omitempty"`
}

// StayCreated is the body answered by POST /stays.
type StayCreated struct {
	Stay  domain.Stay `json:"stay"`
	Added bool        `json:"added"`
}

// StayImportResponse is the body answered by POST /stays/import.
type StayImportResponse struct {
	service.StayImport
	Notice string `json:"notice"`
}

// ListStays handles GET /stays.
func (s *Server) ListStays(w http.ResponseWriter, r *http.Request) {
	stays, err := s.svc.Stays.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "stay", err)
		return
	}
	writeJSON(w, http.StatusOK, stays)
}

// CreateStay handles POST /stays. A duplicate answers 200 with added=false.
func (s *Server) CreateStay(w http.ResponseWriter, r *http.Request) {
	var body StayRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	stay, added, err := s.svc.Stays.Add(r.Context(), requestToStay(body))
	if err != nil {
		s.writeServiceError(w, r, "stay", err)
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	writeJSON(w, status, StayCreated{Stay: stay, Added: added})
}

// ImportStay handles POST /stays/import. The body is the raw .eml message,
// either as the request body or as the "file" part of a multipart form.
// Query parameters name and address supply fallbacks for fields the email
// does not contain.
func (s *Server) ImportStay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, err := optionalQuery(q, "name", "")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	address, err := optionalQuery(q, "address", "")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	defaults := importer.StayDefaults{Name: name, Address: address}

	raw, err := readUpload(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	result, err := s.svc.Stays.ImportEML(r.Context(), string(raw), defaults)
	if err != nil {
		s.writeServiceError(w, r, "stay", err)
		return
	}
	writeJSON(w, http.StatusOK, StayImportResponse{StayImport: result, Notice: result.Notice()})
}

// DeleteStay handles DELETE /stays/{id}.
func (s *Server) DeleteStay(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Stays.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, "stay", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearStays handles DELETE /stays.
func (s *Server) ClearStays(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Stays.Clear(r.Context()); err != nil {
		s.writeServiceError(w, r, "stay", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestToStay converts a StayRequest body into a domain.Stay. Dates are
// stored as YYYY-MM-DD, the same form the email extractors produce.
func requestToStay(body StayRequest) domain.Stay {
	stay := domain.Stay{
		Name:    body.Name,
		Address: body.Address,
		Notes:   body.Notes,
	}
	if body.CheckIn != nil {
		stay.CheckIn = body.CheckIn.Format(openapi_types.DateFormat)
	}
	if body.CheckOut != nil {
		stay.CheckOut = body.CheckOut.Format(openapi_types.DateFormat)
	}
	return stay
}
