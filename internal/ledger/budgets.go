package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/store"
)

// Budgets are planning records only: nothing here touches account balances.

type CreateBudgetParams struct {
	OwnerID string
	Title   string
	Type    string
	Amount  decimal.Decimal
	Date    time.Time
}

// UpdateBudgetParams carries optional field updates; nil means unchanged.
type UpdateBudgetParams struct {
	Title  *string
	Type   *string
	Amount *decimal.Decimal
	Date   *time.Time
}

func (s *Service) CreateBudget(ctx context.Context, p CreateBudgetParams) (core.Budget, error) {
	b := core.Budget{
		ID:        s.newID(),
		OwnerID:   p.OwnerID,
		Title:     p.Title,
		Type:      p.Type,
		Amount:    p.Amount,
		Date:      p.Date,
		CreatedAt: s.now(),
	}
	if b.Date.IsZero() {
		b.Date = b.CreatedAt
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	err := s.store.Update(ctx, func(tx store.Tx) error {
		return tx.PutBudget(ctx, b)
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"budget_id", b.ID, "owner_id", b.OwnerID, "amount", b.Amount)
	return b, nil
}

func (s *Service) UpdateBudget(ctx context.Context, ownerID, id string, p UpdateBudgetParams) (core.Budget, error) {
	var updated core.Budget
	err := s.store.Update(ctx, func(tx store.Tx) error {
		b, err := tx.GetBudget(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			b.Title = *p.Title
		}
		if p.Type != nil {
			b.Type = *p.Type
		}
		if p.Amount != nil {
			b.Amount = *p.Amount
		}
		if p.Date != nil {
			b.Date = *p.Date
		}
		if err := b.Validate(); err != nil {
			return err
		}
		if err := tx.PutBudget(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteBudget(ctx context.Context, ownerID, id string) error {
	err := s.store.Update(ctx, func(tx store.Tx) error {
		return tx.DeleteBudget(ctx, ownerID, id)
	})
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (s *Service) ListBudgets(ctx context.Context, ownerID string) ([]core.Budget, error) {
	var out []core.Budget
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListBudgets(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

func (s *Service) CountBudgets(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		n, err = tx.CountBudgets(ctx, ownerID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count budgets: %w", err)
	}
	return n, nil
}
