package core

import "errors"

// Error kinds surfaced by the ledger engine. Callers match them with
// errors.Is; the HTTP boundary maps each kind to a status code.
var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an id that is absent or not owned by the caller.
	// The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an operation rejected because of dependent state.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable marks a transient store failure. The whole
	// operation is safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
