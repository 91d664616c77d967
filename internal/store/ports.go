// Package store defines the transactional store the ledger engine runs
// against. Implementations must give Update read-your-writes semantics and
// all-or-nothing visibility: either every write inside the unit lands, or
// none does.
package store

import (
	"context"

	"tally/internal/core"
)

// TransactionFilter narrows transaction listings. Zero value means no
// filtering.
type TransactionFilter struct {
	Type      core.TransactionType
	AccountID string
	Window    core.Window
}

// Ports for the three entity collections. All operations are scoped by
// owner: an id that exists under a different owner behaves exactly like an
// absent id (core.ErrNotFound).
type (
	Tx interface {
		GetAccount(ctx context.Context, ownerID, id string) (core.Account, error)
		PutAccount(ctx context.Context, a core.Account) error
		DeleteAccount(ctx context.Context, ownerID, id string) error
		ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error)

		GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error)
		PutTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, ownerID, id string) error
		// ListTransactions returns matches ordered most recent CreatedAt
		// first, id as tie-break.
		ListTransactions(ctx context.Context, ownerID string, f TransactionFilter) ([]core.Transaction, error)
		// DeleteTransactionsByAccount removes every transaction of the
		// account and returns how many were removed.
		DeleteTransactionsByAccount(ctx context.Context, ownerID, accountID string) (int, error)

		GetBudget(ctx context.Context, ownerID, id string) (core.Budget, error)
		PutBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, ownerID, id string) error
		ListBudgets(ctx context.Context, ownerID string) ([]core.Budget, error)
		CountBudgets(ctx context.Context, ownerID string) (int, error)
	}

	// Store hands out atomic units. Update serializes concurrent writers so
	// a read-modify-write of an account balance cannot lose updates; View
	// needs no isolation beyond read-committed.
	Store interface {
		View(ctx context.Context, fn func(Tx) error) error
		Update(ctx context.Context, fn func(Tx) error) error
		Close() error
	}
)
