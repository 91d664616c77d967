package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/ledger"
)

type createAccountRequest struct {
	Title          string `json:"title"`
	Type           string `json:"type"`
	InitialBalance string `json:"initial_balance"`
}

type updateAccountRequest struct {
	Title   *string `json:"title"`
	Type    *string `json:"type"`
	Balance *string `json:"balance"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	initial := decimal.Zero
	if req.InitialBalance != "" {
		var err error
		initial, err = core.ParseAmount(req.InitialBalance)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	a, err := s.ledger.CreateAccount(r.Context(), ledger.CreateAccountParams{
		OwnerID:        ownerID,
		Title:          req.Title,
		Type:           req.Type,
		InitialBalance: initial,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(a))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request, ownerID string) {
	a, err := s.ledger.GetAccount(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(a))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request, ownerID string) {
	accounts, err := s.ledger.ListAccounts(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponses(accounts))
}

func (s *Server) handleTotalBalance(w http.ResponseWriter, r *http.Request, ownerID string) {
	total, err := s.ledger.GetBalance(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"balance": total.String()})
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	params := ledger.UpdateAccountParams{
		Title: req.Title,
		Type:  req.Type,
	}
	if req.Balance != nil {
		balance, err := core.ParseAmount(*req.Balance)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.Balance = &balance
	}

	a, err := s.ledger.UpdateAccount(r.Context(), ownerID, r.PathValue("id"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(a))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, ownerID string) {
	if err := s.ledger.DeleteAccount(r.Context(), ownerID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
