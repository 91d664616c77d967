// Package ledger implements the engine behind the finance tracker: account
// balances, transaction processing, budgets and reports. Every mutating
// operation runs as one atomic store unit, so a transaction row and its
// account-balance adjustment land together or not at all.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tally/internal/core"
	"tally/internal/store"
)

// EventPublisher receives a notification after a transaction mutation has
// committed. Implementations must not block the request path; failures are
// logged and swallowed.
type EventPublisher interface {
	PublishTransaction(ctx context.Context, action string, t core.Transaction) error
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Service is the ledger engine. It owns no goroutines; concurrency control
// is delegated to the store's atomic units.
type Service struct {
	store  store.Store
	events EventPublisher

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

// New creates the engine on top of a store. events may be nil, in which
// case mutations simply go unannounced.
func New(st store.Store, events EventPublisher) *Service {
	return &Service{
		store:  st,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

func (s *Service) Close() error {
	return s.store.Close()
}

// publish announces a committed transaction mutation. A dead broker must
// never fail a request whose state change already committed.
func (s *Service) publish(ctx context.Context, action string, t core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransaction(ctx, action, t); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"action", action, "transaction_id", t.ID, "error", err)
	}
}
