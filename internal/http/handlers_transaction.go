package http

import (
	"net/http"

	"tally/internal/core"
	"tally/internal/ledger"
)

type createTransactionRequest struct {
	AccountID   string `json:"account_id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type updateTransactionRequest struct {
	AccountID   *string `json:"account_id"`
	Type        *string `json:"type"`
	Amount      *string `json:"amount"`
	Description *string `json:"description"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParsePositiveAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.ledger.CreateTransaction(r.Context(), ledger.CreateTransactionParams{
		OwnerID:     ownerID,
		AccountID:   req.AccountID,
		Type:        core.TransactionType(req.Type),
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, ownerID string) {
	filter := ledger.TransactionFilter{
		Type: core.TransactionType(r.URL.Query().Get("type")),
	}

	transactions, err := s.ledger.ListTransactions(r.Context(), ownerID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	params := ledger.UpdateTransactionParams{
		AccountID:   req.AccountID,
		Description: req.Description,
	}
	if req.Type != nil {
		transactionType := core.TransactionType(*req.Type)
		params.Type = &transactionType
	}
	if req.Amount != nil {
		amount, err := core.ParsePositiveAmount(*req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.Amount = &amount
	}

	t, err := s.ledger.UpdateTransaction(r.Context(), ownerID, r.PathValue("id"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, ownerID string) {
	if err := s.ledger.DeleteTransaction(r.Context(), ownerID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
