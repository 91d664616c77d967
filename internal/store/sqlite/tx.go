package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/store"
)

type tx struct {
	tx *sql.Tx
}

var _ store.Tx = (*tx)(nil)

// Decimals and timestamps are stored as text so values round-trip exactly.
// The fixed-width fractional seconds keep lexicographic ORDER BY
// chronological.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (core.Account, error) {
	var a core.Account
	var balance, opening, createdAt string
	if err := r.Scan(&a.ID, &a.OwnerID, &a.Title, &a.Type, &balance, &opening, &createdAt); err != nil {
		return core.Account{}, err
	}
	var err error
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return core.Account{}, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	if a.Opening, err = decimal.NewFromString(opening); err != nil {
		return core.Account{}, fmt.Errorf("parse opening %q: %w", opening, err)
	}
	if a.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return core.Account{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return a, nil
}

func scanTransaction(r rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var amount, balance, createdAt string
	if err := r.Scan(&t.ID, &t.OwnerID, &t.AccountID, &t.Type, &amount, &balance, &t.Description, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.Balance, err = decimal.NewFromString(balance); err != nil {
		return core.Transaction{}, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	if t.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return t, nil
}

func scanBudget(r rowScanner) (core.Budget, error) {
	var b core.Budget
	var amount, date, createdAt string
	if err := r.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Type, &amount, &date, &createdAt); err != nil {
		return core.Budget{}, err
	}
	var err error
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Budget{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if b.Date, err = time.Parse(timeFormat, date); err != nil {
		return core.Budget{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if b.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return core.Budget{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return b, nil
}

func (t *tx) GetAccount(ctx context.Context, ownerID, id string) (core.Account, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, owner_id, title, type, balance, opening, created_at
		FROM accounts
		WHERE id = ? AND owner_id = ?`, id, ownerID)
	a, err := scanAccount(row)
	if err != nil {
		return core.Account{}, wrapErr("get account", err)
	}
	return a, nil
}

func (t *tx) PutAccount(ctx context.Context, a core.Account) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO accounts (id, owner_id, title, type, balance, opening, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			balance = excluded.balance,
			opening = excluded.opening`,
		a.ID, a.OwnerID, a.Title, a.Type, a.Balance.String(), a.Opening.String(), a.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return wrapErr("put account", err)
	}
	return nil
}

func (t *tx) DeleteAccount(ctx context.Context, ownerID, id string) error {
	res, err := t.tx.ExecContext(ctx, `
		DELETE FROM accounts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return wrapErr("delete account", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete account %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (t *tx) ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, owner_id, title, type, balance, opening, created_at
		FROM accounts
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, wrapErr("list accounts", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, wrapErr("list accounts", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list accounts", err)
	}
	return out, nil
}

func (t *tx) GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, owner_id, account_id, type, amount, balance, description, created_at
		FROM transactions
		WHERE id = ? AND owner_id = ?`, id, ownerID)
	tr, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, wrapErr("get transaction", err)
	}
	return tr, nil
}

func (t *tx) PutTransaction(ctx context.Context, tr core.Transaction) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, account_id, type, amount, balance, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			account_id = excluded.account_id,
			type = excluded.type,
			amount = excluded.amount,
			balance = excluded.balance,
			description = excluded.description`,
		tr.ID, tr.OwnerID, tr.AccountID, string(tr.Type), tr.Amount.String(),
		tr.Balance.String(), tr.Description, tr.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return wrapErr("put transaction", err)
	}
	return nil
}

func (t *tx) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := t.tx.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return wrapErr("delete transaction", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (t *tx) ListTransactions(ctx context.Context, ownerID string, f store.TransactionFilter) ([]core.Transaction, error) {
	query := `
		SELECT id, owner_id, account_id, type, amount, balance, description, created_at
		FROM transactions
		WHERE owner_id = ?`
	args := []any{ownerID}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if f.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, f.AccountID)
	}
	if !f.Window.IsZero() {
		query += ` AND created_at >= ? AND created_at < ?`
		args = append(args, f.Window.From.UTC().Format(timeFormat), f.Window.To.UTC().Format(timeFormat))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list transactions", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tr, err := scanTransaction(rows)
		if err != nil {
			return nil, wrapErr("list transactions", err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list transactions", err)
	}
	return out, nil
}

func (t *tx) DeleteTransactionsByAccount(ctx context.Context, ownerID, accountID string) (int, error) {
	res, err := t.tx.ExecContext(ctx, `
		DELETE FROM transactions WHERE owner_id = ? AND account_id = ?`, ownerID, accountID)
	if err != nil {
		return 0, wrapErr("delete transactions by account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("delete transactions by account", err)
	}
	return int(n), nil
}

func (t *tx) GetBudget(ctx context.Context, ownerID, id string) (core.Budget, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, owner_id, title, type, amount, date, created_at
		FROM budgets
		WHERE id = ? AND owner_id = ?`, id, ownerID)
	b, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, wrapErr("get budget", err)
	}
	return b, nil
}

func (t *tx) PutBudget(ctx context.Context, b core.Budget) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO budgets (id, owner_id, title, type, amount, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			amount = excluded.amount,
			date = excluded.date`,
		b.ID, b.OwnerID, b.Title, b.Type, b.Amount.String(),
		b.Date.UTC().Format(timeFormat), b.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return wrapErr("put budget", err)
	}
	return nil
}

func (t *tx) DeleteBudget(ctx context.Context, ownerID, id string) error {
	res, err := t.tx.ExecContext(ctx, `
		DELETE FROM budgets WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return wrapErr("delete budget", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete budget %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (t *tx) ListBudgets(ctx context.Context, ownerID string) ([]core.Budget, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, owner_id, title, type, amount, date, created_at
		FROM budgets
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, wrapErr("list budgets", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, wrapErr("list budgets", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list budgets", err)
	}
	return out, nil
}

func (t *tx) CountBudgets(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM budgets WHERE owner_id = ?`, ownerID).Scan(&n)
	if err != nil {
		return 0, wrapErr("count budgets", err)
	}
	return n, nil
}
