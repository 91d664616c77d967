package http

import (
	"fmt"
	"net/http"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
)

const dateLayout = "2006-01-02"

type createBudgetRequest struct {
	Title  string `json:"title"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

type updateBudgetRequest struct {
	Title  *string `json:"title"`
	Type   *string `json:"type"`
	Amount *string `json:"amount"`
	Date   *string `json:"date"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParsePositiveAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := ledger.CreateBudgetParams{
		OwnerID: ownerID,
		Title:   req.Title,
		Type:    req.Type,
		Amount:  amount,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.Date = date
	}

	b, err := s.ledger.CreateBudget(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBudgetResponse(b))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, ownerID string) {
	budgets, err := s.ledger.ListBudgets(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponses(budgets))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req updateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	params := ledger.UpdateBudgetParams{
		Title: req.Title,
		Type:  req.Type,
	}
	if req.Amount != nil {
		amount, err := core.ParsePositiveAmount(*req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.Amount = &amount
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.Date = &date
	}

	b, err := s.ledger.UpdateBudget(r.Context(), ownerID, r.PathValue("id"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(b))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, ownerID string) {
	if err := s.ledger.DeleteBudget(r.Context(), ownerID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", core.ErrValidation, s)
	}
	return date, nil
}
