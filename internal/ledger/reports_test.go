package ledger

import (
	"context"
	"testing"
	"time"

	"tally/internal/core"
)

func TestComputeReport_Consistency(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "0")
	mustTransaction(t, s, "u1", a.ID, core.Income, "1000")
	mustTransaction(t, s, "u1", a.ID, core.Expense, "400")

	r, err := s.ComputeReport(ctx, "u1", core.Window{})
	if err != nil {
		t.Fatalf("ComputeReport: %v", err)
	}
	if !r.Income.Equal(dec("1000")) {
		t.Errorf("income = %s, want 1000", r.Income)
	}
	if !r.Expense.Equal(dec("400")) {
		t.Errorf("expense = %s, want 400", r.Expense)
	}
	if !r.Saved.Equal(dec("600")) {
		t.Errorf("saved = %s, want 600", r.Saved)
	}
	if !r.SavingRate.Equal(dec("60")) {
		t.Errorf("saving rate = %s, want 60", r.SavingRate)
	}
}

func TestComputeReport_ZeroIncome(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "0")
	mustTransaction(t, s, "u1", a.ID, core.Expense, "250")

	r, err := s.ComputeReport(ctx, "u1", core.Window{})
	if err != nil {
		t.Fatalf("ComputeReport: %v", err)
	}
	if !r.Income.IsZero() {
		t.Errorf("income = %s, want 0", r.Income)
	}
	if !r.Expense.Equal(dec("250")) {
		t.Errorf("expense = %s, want 250", r.Expense)
	}
	if !r.Saved.Equal(dec("-250")) {
		t.Errorf("saved = %s, want -250", r.Saved)
	}
	// The rate is pinned to 0, never a division fault.
	if !r.SavingRate.IsZero() {
		t.Errorf("saving rate = %s, want 0", r.SavingRate)
	}
}

func TestComputeReport_EmptyUser(t *testing.T) {
	s := newTestService(t)

	r, err := s.ComputeReport(context.Background(), "nobody", core.Window{})
	if err != nil {
		t.Fatalf("ComputeReport: %v", err)
	}
	if !r.Income.IsZero() || !r.Expense.IsZero() || !r.Saved.IsZero() || !r.SavingRate.IsZero() {
		t.Errorf("empty user report = %+v, want all zero", r)
	}
}

func TestComputeReport_WindowExcludesOutside(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "0")
	inside := mustTransaction(t, s, "u1", a.ID, core.Income, "100")
	outside := mustTransaction(t, s, "u1", a.ID, core.Income, "900")

	// A window covering only the first transaction.
	w := core.Window{
		From: inside.CreatedAt,
		To:   outside.CreatedAt,
	}
	r, err := s.ComputeReport(ctx, "u1", w)
	if err != nil {
		t.Fatalf("ComputeReport: %v", err)
	}
	if !r.Income.Equal(dec("100")) {
		t.Errorf("income = %s, want 100 (outside-window row leaked in)", r.Income)
	}
}

func TestComputeReport_DefaultsToCurrentMonth(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "0")
	mustTransaction(t, s, "u1", a.ID, core.Income, "100")

	// Shift the clock a month ahead: the default window no longer covers
	// the transaction.
	s.now = func() time.Time { return time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC) }
	r, err := s.ComputeReport(ctx, "u1", core.Window{})
	if err != nil {
		t.Fatalf("ComputeReport: %v", err)
	}
	if !r.Income.IsZero() {
		t.Errorf("income = %s, want 0 for next month's report", r.Income)
	}
}
