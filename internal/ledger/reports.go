package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/store"
)

var hundred = decimal.NewFromInt(100)

// ComputeReport aggregates income, expense, savings and saving rate over
// the user's transactions in the window. A zero window means the current
// calendar month. The report is computed fresh on every call and mutates
// nothing.
//
// Saving rate is saved/income as a percentage. With zero income the ratio
// is undefined; the engine pins it to 0 so callers always get a finite
// decimal.
func (s *Service) ComputeReport(ctx context.Context, ownerID string, window core.Window) (core.Report, error) {
	if window.IsZero() {
		window = core.CurrentMonth(s.now())
	}

	income := decimal.Zero
	expense := decimal.Zero
	err := s.store.View(ctx, func(tx store.Tx) error {
		transactions, err := tx.ListTransactions(ctx, ownerID, store.TransactionFilter{Window: window})
		if err != nil {
			return err
		}
		for _, t := range transactions {
			switch t.Type {
			case core.Income:
				income = income.Add(t.Amount)
			case core.Expense:
				expense = expense.Add(t.Amount)
			}
		}
		return nil
	})
	if err != nil {
		return core.Report{}, fmt.Errorf("compute report: %w", err)
	}

	saved := income.Sub(expense)
	rate := decimal.Zero
	if income.IsPositive() {
		rate = saved.Div(income).Mul(hundred)
	}
	return core.Report{
		Income:     income,
		Expense:    expense,
		Saved:      saved,
		SavingRate: rate,
	}, nil
}
