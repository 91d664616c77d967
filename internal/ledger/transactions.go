package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/store"
)

// CreateTransactionParams holds input for CreateTransaction.
type CreateTransactionParams struct {
	OwnerID     string
	AccountID   string
	Type        core.TransactionType
	Amount      decimal.Decimal
	Description string
}

// UpdateTransactionParams carries optional field updates; nil means
// unchanged.
type UpdateTransactionParams struct {
	AccountID   *string
	Type        *core.TransactionType
	Amount      *decimal.Decimal
	Description *string
}

// TransactionFilter narrows ListTransactions. Empty type means all.
type TransactionFilter struct {
	Type core.TransactionType
}

// CreateTransaction records a transaction and applies its effect to the
// owning account's balance in one atomic unit.
func (s *Service) CreateTransaction(ctx context.Context, p CreateTransactionParams) (core.Transaction, error) {
	t := core.Transaction{
		ID:          s.newID(),
		OwnerID:     p.OwnerID,
		AccountID:   p.AccountID,
		Type:        p.Type,
		Amount:      p.Amount,
		Description: p.Description,
		CreatedAt:   s.now(),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	err := s.store.Update(ctx, func(tx store.Tx) error {
		account, err := tx.GetAccount(ctx, p.OwnerID, p.AccountID)
		if err != nil {
			return err
		}
		account.Balance = account.Balance.Add(t.Effect())
		t.Balance = account.Balance
		if err := tx.PutAccount(ctx, account); err != nil {
			return err
		}
		return tx.PutTransaction(ctx, t)
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", t.ID, "owner_id", t.OwnerID, "account_id", t.AccountID,
		"type", t.Type, "amount", t.Amount)
	s.publish(ctx, ActionCreated, t)
	return t, nil
}

// UpdateTransaction edits a transaction and adjusts account balances by the
// delta between old and new effect. When the transaction moves between
// accounts, both balance updates commit together or not at all.
func (s *Service) UpdateTransaction(ctx context.Context, ownerID, id string, p UpdateTransactionParams) (core.Transaction, error) {
	var updated core.Transaction
	err := s.store.Update(ctx, func(tx store.Tx) error {
		old, err := tx.GetTransaction(ctx, ownerID, id)
		if err != nil {
			return err
		}

		next := old
		if p.AccountID != nil {
			next.AccountID = *p.AccountID
		}
		if p.Type != nil {
			next.Type = *p.Type
		}
		if p.Amount != nil {
			next.Amount = *p.Amount
		}
		if p.Description != nil {
			next.Description = *p.Description
		}
		if err := next.Validate(); err != nil {
			return err
		}

		if next.AccountID != old.AccountID {
			// Cross-account move: the old account loses the old effect, the
			// new account gains the new effect.
			from, err := tx.GetAccount(ctx, ownerID, old.AccountID)
			if err != nil {
				return err
			}
			to, err := tx.GetAccount(ctx, ownerID, next.AccountID)
			if err != nil {
				return err
			}
			from.Balance = from.Balance.Sub(old.Effect())
			to.Balance = to.Balance.Add(next.Effect())
			next.Balance = to.Balance
			if err := tx.PutAccount(ctx, from); err != nil {
				return err
			}
			if err := tx.PutAccount(ctx, to); err != nil {
				return err
			}
		} else {
			account, err := tx.GetAccount(ctx, ownerID, old.AccountID)
			if err != nil {
				return err
			}
			account.Balance = account.Balance.Add(next.Effect().Sub(old.Effect()))
			next.Balance = account.Balance
			if err := tx.PutAccount(ctx, account); err != nil {
				return err
			}
		}

		if err := tx.PutTransaction(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated",
		"transaction_id", id, "owner_id", ownerID, "account_id", updated.AccountID,
		"type", updated.Type, "amount", updated.Amount)
	s.publish(ctx, ActionUpdated, updated)
	return updated, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the
// owning account's balance.
func (s *Service) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	var deleted core.Transaction
	err := s.store.Update(ctx, func(tx store.Tx) error {
		t, err := tx.GetTransaction(ctx, ownerID, id)
		if err != nil {
			return err
		}
		account, err := tx.GetAccount(ctx, ownerID, t.AccountID)
		if err != nil {
			return err
		}
		account.Balance = account.Balance.Sub(t.Effect())
		if err := tx.PutAccount(ctx, account); err != nil {
			return err
		}
		if err := tx.DeleteTransaction(ctx, ownerID, id); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"transaction_id", id, "owner_id", ownerID, "account_id", deleted.AccountID)
	s.publish(ctx, ActionDeleted, deleted)
	return nil
}

// ListTransactions returns the user's transactions, most recent first.
func (s *Service) ListTransactions(ctx context.Context, ownerID string, f TransactionFilter) ([]core.Transaction, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", core.ErrValidation, f.Type)
	}
	var out []core.Transaction
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListTransactions(ctx, ownerID, store.TransactionFilter{Type: f.Type})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}
