package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// BudgetRequest is the body of POST /budget and PATCH /budget/{id}.
// Amount is text so a decimal comma ("12,50") is accepted.
type BudgetRequest struct {
	Desc   string `json:"desc"`
	Amount string `json:"amount"`
}

// BudgetTotalResponse is the body of GET /budget/total.
type BudgetTotalResponse struct {
	Total string `json:"total"`
}

// ListBudget handles GET /budget.
func (s *Server) ListBudget(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Budget.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "budget item", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateBudgetItem handles POST /budget.
func (s *Server) CreateBudgetItem(w http.ResponseWriter, r *http.Request) {
	var body BudgetRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	item, err := s.svc.Budget.Add(r.Context(), body.Desc, body.Amount)
	if err != nil {
		s.writeServiceError(w, r, "budget item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateBudgetItem handles PATCH /budget/{id}. Blank fields keep their
// current value.
func (s *Server) UpdateBudgetItem(w http.ResponseWriter, r *http.Request) {
	var body BudgetRequest
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	item, err := s.svc.Budget.Update(r.Context(), chi.URLParam(r, "id"), body.Desc, body.Amount)
	if err != nil {
		s.writeServiceError(w, r, "budget item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteBudgetItem handles DELETE /budget/{id}.
func (s *Server) DeleteBudgetItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Budget.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, "budget item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearBudget handles DELETE /budget.
func (s *Server) ClearBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Budget.Clear(r.Context()); err != nil {
		s.writeServiceError(w, r, "budget item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBudgetTotal handles GET /budget/total. The total is rendered with two
// decimals.
func (s *Server) GetBudgetTotal(w http.ResponseWriter, r *http.Request) {
	total, err := s.svc.Budget.Total(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "budget item", err)
		return
	}
	writeJSON(w, http.StatusOK, BudgetTotalResponse{Total: total.StringFixed(2)})
}
