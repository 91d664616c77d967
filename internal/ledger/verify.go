package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tally/internal/core"
	"tally/internal/store"
)

// Drift reports an account whose cached balance disagrees with its
// transaction history.
type Drift struct {
	AccountID string
	Stored    decimal.Decimal
	Computed  decimal.Decimal
}

// VerifyBalances recomputes every account balance of the user as opening
// balance plus the summed effect of its surviving transactions, and returns
// the accounts that drifted. An empty result means the balance invariant
// holds. Accounts are checked in parallel; each check is its own read unit,
// so a verification racing a concurrent mutation may report transient
// drift. Rerun to confirm.
func (s *Service) VerifyBalances(ctx context.Context, ownerID string) ([]Drift, error) {
	var accounts []core.Account
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		accounts, err = tx.ListAccounts(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("verify balances: %w", err)
	}

	var (
		mu     sync.Mutex
		drifts []Drift
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, account := range accounts {
		g.Go(func() error {
			replayed, err := s.replayBalance(gctx, ownerID, account.ID)
			if err != nil {
				return err
			}
			computed := account.Opening.Add(replayed)
			if !computed.Equal(account.Balance) {
				mu.Lock()
				drifts = append(drifts, Drift{
					AccountID: account.ID,
					Stored:    account.Balance,
					Computed:  computed,
				})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify balances: %w", err)
	}

	if len(drifts) > 0 {
		slog.WarnContext(ctx, "Balance drift detected",
			"owner_id", ownerID, "drifted_accounts", len(drifts))
	}
	return drifts, nil
}

// replayBalance sums the effect of every surviving transaction of the
// account.
func (s *Service) replayBalance(ctx context.Context, ownerID, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := s.store.View(ctx, func(tx store.Tx) error {
		transactions, err := tx.ListTransactions(ctx, ownerID, store.TransactionFilter{AccountID: accountID})
		if err != nil {
			return err
		}
		for _, t := range transactions {
			sum = sum.Add(t.Effect())
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
