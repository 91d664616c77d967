package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Account is a monetary account owned by exactly one user. Balance is a
	// cached aggregate: at all times it must equal Opening plus the sum of
	// Effect() over the surviving transactions of the account. The
	// transaction processor keeps it in sync on every mutation;
	// VerifyBalances detects drift.
	//
	// Opening starts as the initial balance and absorbs privileged direct
	// corrections, so the invariant survives them without replaying
	// history.
	Account struct {
		ID        string
		OwnerID   string
		Title     string
		Type      string
		Balance   decimal.Decimal
		Opening   decimal.Decimal
		CreatedAt time.Time
	}

	// Transaction records a single income or expense against one account.
	Transaction struct {
		ID          string
		OwnerID     string
		AccountID   string
		Type        TransactionType
		Amount      decimal.Decimal // always positive; sign lives in Type
		Balance     decimal.Decimal // account balance right after this mutation
		Description string
		CreatedAt   time.Time
	}

	// Budget is an independent planning record. No relationship to Account
	// or Transaction.
	Budget struct {
		ID        string
		OwnerID   string
		Title     string
		Type      string
		Amount    decimal.Decimal
		Date      time.Time
		CreatedAt time.Time
	}

	// Report is a computed view over a user's transactions for a window.
	// Never persisted.
	Report struct {
		Income     decimal.Decimal
		Expense    decimal.Decimal
		Saved      decimal.Decimal
		SavingRate decimal.Decimal // percent; 0 when Income is 0
	}

	// Window is the half-open time range [From, To) a report covers.
	Window struct {
		From time.Time
		To   time.Time
	}
)

// CurrentMonth returns the window covering the calendar month of now.
func CurrentMonth(now time.Time) Window {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{From: from, To: from.AddDate(0, 1, 0)}
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// Effect returns the signed contribution of the transaction to its
/// account's balance: +Amount for income, -Amount for expense.
func (t Transaction) Effect() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (tt TransactionType) Valid() bool {
	return tt == Income || tt == Expense
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: account title must not be empty", ErrValidation)
	}
	if strings.TrimSpace(a.Type) == "" {
		return fmt.Errorf("%w: account type must not be empty", ErrValidation)
	}
	if a.OwnerID == "" {
		return fmt.Errorf("%w: owner id must not be empty", ErrValidation)
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.OwnerID == "" {
		return fmt.Errorf("%w: owner id must not be empty", ErrValidation)
	}
	if t.AccountID == "" {
		return fmt.Errorf("%w: account id must not be empty", ErrValidation)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: transaction type must be income or expense, got %q", ErrValidation, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transaction amount must be positive, got %s", ErrValidation, t.Amount)
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	}
	return nil
}

func (b Budget) Validate() error {
	if b.OwnerID == "" {
		return fmt.Errorf("%w: owner id must not be empty", ErrValidation)
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: budget title must not be empty", ErrValidation)
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: budget amount must be positive, got %s", ErrValidation, b.Amount)
	}
	return nil
}
