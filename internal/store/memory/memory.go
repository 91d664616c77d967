// Package memory provides an in-memory store implementation. It backs tests
// and the zero-setup default backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tally/internal/core"
	"tally/internal/store"
)

type state struct {
	accounts     map[string]core.Account
	transactions map[string]core.Transaction
	budgets      map[string]core.Budget
}

func newState() *state {
	return &state{
		accounts:     make(map[string]core.Account),
		transactions: make(map[string]core.Transaction),
		budgets:      make(map[string]core.Budget),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.budgets {
		c.budgets[k] = v
	}
	return c
}

// Store keeps all three collections in process memory. Update runs against
// a copy of the state and swaps it in only when the unit succeeds, so a
// failed unit leaves nothing behind.
type Store struct {
	mu sync.RWMutex
	st *state
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) View(ctx context.Context, fn func(store.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{st: s.st})
}

func (s *Store) Update(ctx context.Context, fn func(store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.st.clone()
	if err := fn(&tx{st: staged}); err != nil {
		return err
	}
	s.st = staged
	return nil
}

func (s *Store) Close() error { return nil }

type tx struct {
	st *state
}

func (t *tx) GetAccount(_ context.Context, ownerID, id string) (core.Account, error) {
	a, ok := t.st.accounts[id]
	if !ok || a.OwnerID != ownerID {
		return core.Account{}, fmt.Errorf("get account %s: %w", id, core.ErrNotFound)
	}
	return a, nil
}

func (t *tx) PutAccount(_ context.Context, a core.Account) error {
	t.st.accounts[a.ID] = a
	return nil
}

func (t *tx) DeleteAccount(_ context.Context, ownerID, id string) error {
	a, ok := t.st.accounts[id]
	if !ok || a.OwnerID != ownerID {
		return fmt.Errorf("delete account %s: %w", id, core.ErrNotFound)
	}
	delete(t.st.accounts, id)
	return nil
}

func (t *tx) ListAccounts(_ context.Context, ownerID string) ([]core.Account, error) {
	var out []core.Account
	for _, a := range t.st.accounts {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (t *tx) GetTransaction(_ context.Context, ownerID, id string) (core.Transaction, error) {
	tr, ok := t.st.transactions[id]
	if !ok || tr.OwnerID != ownerID {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, core.ErrNotFound)
	}
	return tr, nil
}

func (t *tx) PutTransaction(_ context.Context, tr core.Transaction) error {
	t.st.transactions[tr.ID] = tr
	return nil
}

func (t *tx) DeleteTransaction(_ context.Context, ownerID, id string) error {
	tr, ok := t.st.transactions[id]
	if !ok || tr.OwnerID != ownerID {
		return fmt.Errorf("delete transaction %s: %w", id, core.ErrNotFound)
	}
	delete(t.st.transactions, id)
	return nil
}

func (t *tx) ListTransactions(_ context.Context, ownerID string, f store.TransactionFilter) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, tr := range t.st.transactions {
		if tr.OwnerID != ownerID {
			continue
		}
		if f.Type != "" && tr.Type != f.Type {
			continue
		}
		if f.AccountID != "" && tr.AccountID != f.AccountID {
			continue
		}
		if !f.Window.IsZero() && !f.Window.Contains(tr.CreatedAt) {
			continue
		}
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (t *tx) DeleteTransactionsByAccount(_ context.Context, ownerID, accountID string) (int, error) {
	n := 0
	for id, tr := range t.st.transactions {
		if tr.OwnerID == ownerID && tr.AccountID == accountID {
			delete(t.st.transactions, id)
			n++
		}
	}
	return n, nil
}

func (t *tx) GetBudget(_ context.Context, ownerID, id string) (core.Budget, error) {
	b, ok := t.st.budgets[id]
	if !ok || b.OwnerID != ownerID {
		return core.Budget{}, fmt.Errorf("get budget %s: %w", id, core.ErrNotFound)
	}
	return b, nil
}

func (t *tx) PutBudget(_ context.Context, b core.Budget) error {
	t.st.budgets[b.ID] = b
	return nil
}

func (t *tx) DeleteBudget(_ context.Context, ownerID, id string) error {
	b, ok := t.st.budgets[id]
	if !ok || b.OwnerID != ownerID {
		return fmt.Errorf("delete budget %s: %w", id, core.ErrNotFound)
	}
	delete(t.st.budgets, id)
	return nil
}

func (t *tx) ListBudgets(_ context.Context, ownerID string) ([]core.Budget, error) {
	var out []core.Budget
	for _, b := range t.st.budgets {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (t *tx) CountBudgets(_ context.Context, ownerID string) (int, error) {
	n := 0
	for _, b := range t.st.budgets {
		if b.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}
