package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/store"
)

// CreateAccountParams holds input for CreateAccount.
type CreateAccountParams struct {
	OwnerID        string
	Title          string
	Type           string
	InitialBalance decimal.Decimal
}

// UpdateAccountParams carries optional field updates; nil means unchanged.
// Setting Balance is the privileged correction path: it overwrites the
// cached aggregate without touching transaction history.
type UpdateAccountParams struct {
	Title   *string
	Type    *string
	Balance *decimal.Decimal
}

func (s *Service) CreateAccount(ctx context.Context, p CreateAccountParams) (core.Account, error) {
	a := core.Account{
		ID:        s.newID(),
		OwnerID:   p.OwnerID,
		Title:     p.Title,
		Type:      p.Type,
		Balance:   p.InitialBalance,
		Opening:   p.InitialBalance,
		CreatedAt: s.now(),
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	err := s.store.Update(ctx, func(tx store.Tx) error {
		return tx.PutAccount(ctx, a)
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", a.ID, "owner_id", a.OwnerID, "balance", a.Balance)
	return a, nil
}

func (s *Service) GetAccount(ctx context.Context, ownerID, id string) (core.Account, error) {
	var a core.Account
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		a, err = tx.GetAccount(ctx, ownerID, id)
		return err
	})
	return a, err
}

func (s *Service) ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	var out []core.Account
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListAccounts(ctx, ownerID)
		return err
	})
	return out, err
}

// GetBalance returns the sum of balances of all accounts owned by ownerID,
// zero when there are none.
func (s *Service) GetBalance(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.store.View(ctx, func(tx store.Tx) error {
		accounts, err := tx.ListAccounts(ctx, ownerID)
		if err != nil {
			return err
		}
		for _, a := range accounts {
			total = total.Add(a.Balance)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return total, nil
}

func (s *Service) UpdateAccount(ctx context.Context, ownerID, id string, p UpdateAccountParams) (core.Account, error) {
	var updated core.Account
	err := s.store.Update(ctx, func(tx store.Tx) error {
		a, err := tx.GetAccount(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			a.Title = *p.Title
		}
		if p.Type != nil {
			a.Type = *p.Type
		}
		if p.Balance != nil {
			// Privileged correction: shift the opening baseline by the same
			// delta so VerifyBalances keeps flagging real drift only.
			a.Opening = a.Opening.Add(p.Balance.Sub(a.Balance))
			a.Balance = *p.Balance
		}
		if err := a.Validate(); err != nil {
			return err
		}
		if err := tx.PutAccount(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("update account: %w", err)
	}

	if p.Balance != nil {
		slog.WarnContext(ctx, "Account balance corrected directly",
			"account_id", id, "owner_id", ownerID, "balance", updated.Balance)
	}
	return updated, nil
}

// DeleteAccount removes the account and cascades deletion of its
// transactions in the same atomic unit, keeping the balance invariant
// vacuously true.
func (s *Service) DeleteAccount(ctx context.Context, ownerID, id string) error {
	var removed int
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if _, err := tx.GetAccount(ctx, ownerID, id); err != nil {
			return err
		}
		n, err := tx.DeleteTransactionsByAccount(ctx, ownerID, id)
		if err != nil {
			return err
		}
		removed = n
		return tx.DeleteAccount(ctx, ownerID, id)
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	slog.InfoContext(ctx, "Account deleted",
		"account_id", id, "owner_id", ownerID, "cascaded_transactions", removed)
	return nil
}
