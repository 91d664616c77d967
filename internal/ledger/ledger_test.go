package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/store"
	"tally/internal/store/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestService returns an engine on a fresh memory store with a
// deterministic clock and sequential ids.
func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceOn(t, memory.New())
}

func newTestServiceOn(t *testing.T, st store.Store) *Service {
	t.Helper()
	s := New(st, nil)
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	var ticks int
	s.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Second)
	}
	var seq int
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	return s
}

func mustAccount(t *testing.T, s *Service, owner, title, balance string) core.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), CreateAccountParams{
		OwnerID:        owner,
		Title:          title,
		Type:           "bank",
		InitialBalance: dec(balance),
	})
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", title, err)
	}
	return a
}

func mustTransaction(t *testing.T, s *Service, owner, account string, typ core.TransactionType, amount string) core.Transaction {
	t.Helper()
	tr, err := s.CreateTransaction(context.Background(), CreateTransactionParams{
		OwnerID:   owner,
		AccountID: account,
		Type:      typ,
		Amount:    dec(amount),
	})
	if err != nil {
		t.Fatalf("CreateTransaction(%s %s): %v", typ, amount, err)
	}
	return tr
}

func accountBalance(t *testing.T, s *Service, owner, id string) decimal.Decimal {
	t.Helper()
	a, err := s.GetAccount(context.Background(), owner, id)
	if err != nil {
		t.Fatalf("GetAccount(%s): %v", id, err)
	}
	return a.Balance
}

func assertNoDrift(t *testing.T, s *Service, owner string) {
	t.Helper()
	drifts, err := s.VerifyBalances(context.Background(), owner)
	if err != nil {
		t.Fatalf("VerifyBalances: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("balance drift: %+v", drifts)
	}
}
