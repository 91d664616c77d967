package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"tally/internal/core"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP statuses. Unknown errors are
// reported as 500 without leaking internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var kind string

	switch {
	case errors.Is(err, core.ErrValidation):
		status, kind = http.StatusUnprocessableEntity, "validation"
	case errors.Is(err, core.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, core.ErrConflict):
		status, kind = http.StatusConflict, "conflict"
	case errors.Is(err, core.ErrStoreUnavailable):
		status, kind = http.StatusServiceUnavailable, "store_unavailable"
	default:
		slog.ErrorContext(r.Context(), "Unhandled error",
			"error", err,
			"method", r.Method,
			"url", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error: errorDetail{Kind: "internal", Message: "internal error"},
		})
		return
	}

	writeJSON(w, status, errorBody{
		Error: errorDetail{Kind: kind, Message: err.Error()},
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, core.ErrValidation)
	}
	return nil
}
