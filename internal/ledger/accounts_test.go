package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/store"
)

func TestCreateAccount_Validation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, tt := range []struct {
		name string
		p    CreateAccountParams
	}{
		{"empty title", CreateAccountParams{OwnerID: "u1", Title: " ", Type: "bank"}},
		{"empty type", CreateAccountParams{OwnerID: "u1", Title: "Checking", Type: ""}},
		{"empty owner", CreateAccountParams{Title: "Checking", Type: "bank"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateAccount(ctx, tt.p)
			if !errors.Is(err, core.ErrValidation) {
				t.Fatalf("CreateAccount = %v, want ErrValidation", err)
			}
		})
	}
}

func TestGetBalance_SumsOwnedAccounts(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustAccount(t, s, "u1", "Checking", "100.25")
	mustAccount(t, s, "u1", "Savings", "899.75")
	mustAccount(t, s, "someone-else", "Other", "5000")

	total, err := s.GetBalance(ctx, "u1")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if !total.Equal(dec("1000")) {
		t.Errorf("total = %s, want 1000", total)
	}
}

func TestGetBalance_NoAccountsIsZero(t *testing.T) {
	s := newTestService(t)

	total, err := s.GetBalance(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if !total.IsZero() {
		t.Errorf("total = %s, want 0", total)
	}
}

func TestUpdateAccount(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "50")

	t.Run("rename", func(t *testing.T) {
		title := "Main checking"
		got, err := s.UpdateAccount(ctx, "u1", a.ID, UpdateAccountParams{Title: &title})
		if err != nil {
			t.Fatalf("UpdateAccount: %v", err)
		}
		if got.Title != title {
			t.Errorf("title = %q, want %q", got.Title, title)
		}
		if !got.Balance.Equal(dec("50")) {
			t.Errorf("balance = %s, want unchanged 50", got.Balance)
		}
	})

	t.Run("direct balance correction keeps invariant", func(t *testing.T) {
		mustTransaction(t, s, "u1", a.ID, core.Income, "25")

		corrected := dec("500")
		got, err := s.UpdateAccount(ctx, "u1", a.ID, UpdateAccountParams{Balance: &corrected})
		if err != nil {
			t.Fatalf("UpdateAccount: %v", err)
		}
		if !got.Balance.Equal(corrected) {
			t.Errorf("balance = %s, want 500", got.Balance)
		}
		// The correction is absorbed into the baseline, not treated as
		// drift, and history was not rewritten.
		assertNoDrift(t, s, "u1")
		list, err := s.ListTransactions(ctx, "u1", TransactionFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 {
			t.Errorf("transactions rewritten: %d rows", len(list))
		}
	})

	t.Run("absent id", func(t *testing.T) {
		_, err := s.UpdateAccount(ctx, "u1", "missing", UpdateAccountParams{})
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("UpdateAccount = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteAccount_CascadesTransactions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	doomed := mustAccount(t, s, "u1", "Doomed", "0")
	kept := mustAccount(t, s, "u1", "Kept", "0")
	mustTransaction(t, s, "u1", doomed.ID, core.Income, "10")
	mustTransaction(t, s, "u1", doomed.ID, core.Expense, "3")
	surviving := mustTransaction(t, s, "u1", kept.ID, core.Income, "99")

	if err := s.DeleteAccount(ctx, "u1", doomed.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, err := s.GetAccount(ctx, "u1", doomed.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleted account still readable: %v", err)
	}
	list, err := s.ListTransactions(ctx, "u1", TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != surviving.ID {
		t.Errorf("cascade left %v, want only %s", ids(list), surviving.ID)
	}
	assertNoDrift(t, s, "u1")

	if err := s.DeleteAccount(ctx, "u1", doomed.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestVerifyBalances_DetectsDrift(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "100")
	mustTransaction(t, s, "u1", a.ID, core.Income, "50")
	assertNoDrift(t, s, "u1")

	// Corrupt the cached balance behind the engine's back.
	if err := s.store.Update(ctx, func(tx store.Tx) error {
		acct, err := tx.GetAccount(ctx, "u1", a.ID)
		if err != nil {
			return err
		}
		acct.Balance = decimal.NewFromInt(9999)
		return tx.PutAccount(ctx, acct)
	}); err != nil {
		t.Fatal(err)
	}

	drifts, err := s.VerifyBalances(ctx, "u1")
	if err != nil {
		t.Fatalf("VerifyBalances: %v", err)
	}
	if len(drifts) != 1 {
		t.Fatalf("drifts = %+v, want exactly one", drifts)
	}
	d := drifts[0]
	if d.AccountID != a.ID || !d.Stored.Equal(dec("9999")) || !d.Computed.Equal(dec("150")) {
		t.Errorf("drift = %+v, want stored 9999 computed 150", d)
	}
}
