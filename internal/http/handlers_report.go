package http

import (
	"fmt"
	"net/http"

	"tally/internal/core"
)

// handleReport aggregates income and expense over the requested window.
// Without from/to the report covers the current calendar month. The
// "to" date is exclusive.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, ownerID string) {
	var window core.Window

	if v := r.URL.Query().Get("from"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		window.From = from
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		window.To = to
	}

	// Half-open windows are ambiguous, require both bounds or neither.
	if window.From.IsZero() != window.To.IsZero() {
		writeError(w, r, fmt.Errorf("%w: from and to must be provided together", core.ErrValidation))
		return
	}

	report, err := s.ledger.ComputeReport(r.Context(), ownerID, window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(report))
}

// handleVerify recomputes account balances from transaction history and
// reports drifted accounts.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request, ownerID string) {
	drifts, err := s.ledger.VerifyBalances(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"consistent": len(drifts) == 0,
		"drifts":     toDriftResponses(drifts),
	})
}
