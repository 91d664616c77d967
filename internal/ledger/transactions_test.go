package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/store"
	"tally/internal/store/memory"
)

func TestCreateTransaction_AppliesEffect(t *testing.T) {
	s := newTestService(t)
	a := mustAccount(t, s, "u1", "Checking", "100")

	income := mustTransaction(t, s, "u1", a.ID, core.Income, "250.75")
	if !income.Balance.Equal(dec("350.75")) {
		t.Errorf("snapshot balance = %s, want 350.75", income.Balance)
	}
	if got := accountBalance(t, s, "u1", a.ID); !got.Equal(dec("350.75")) {
		t.Errorf("account balance = %s, want 350.75", got)
	}

	expense := mustTransaction(t, s, "u1", a.ID, core.Expense, "50.75")
	if !expense.Balance.Equal(dec("300")) {
		t.Errorf("snapshot balance = %s, want 300", expense.Balance)
	}
	if got := accountBalance(t, s, "u1", a.ID); !got.Equal(dec("300")) {
		t.Errorf("account balance = %s, want 300", got)
	}

	assertNoDrift(t, s, "u1")
}

func TestCreateTransaction_Validation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "0")

	tests := []struct {
		name string
		p    CreateTransactionParams
		want error
	}{
		{
			name: "zero amount",
			p:    CreateTransactionParams{OwnerID: "u1", AccountID: a.ID, Type: core.Income, Amount: decimal.Zero},
			want: core.ErrValidation,
		},
		{
			name: "negative amount",
			p:    CreateTransactionParams{OwnerID: "u1", AccountID: a.ID, Type: core.Expense, Amount: dec("-4")},
			want: core.ErrValidation,
		},
		{
			name: "unknown type",
			p:    CreateTransactionParams{OwnerID: "u1", AccountID: a.ID, Type: "transfer", Amount: dec("5")},
			want: core.ErrValidation,
		},
		{
			name: "account not owned",
			p:    CreateTransactionParams{OwnerID: "u2", AccountID: a.ID, Type: core.Income, Amount: dec("5")},
			want: core.ErrNotFound,
		},
		{
			name: "account absent",
			p:    CreateTransactionParams{OwnerID: "u1", AccountID: "missing", Type: core.Income, Amount: dec("5")},
			want: core.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateTransaction(ctx, tt.p)
			if !errors.Is(err, tt.want) {
				t.Fatalf("CreateTransaction = %v, want %v", err, tt.want)
			}
		})
	}

	// Failed creates must not have moved the balance.
	if got := accountBalance(t, s, "u1", a.ID); !got.IsZero() {
		t.Errorf("balance = %s after rejected creates, want 0", got)
	}
}

func TestBalanceInvariant_OperationSequence(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "1000")

	t1 := mustTransaction(t, s, "u1", a.ID, core.Income, "500")
	t2 := mustTransaction(t, s, "u1", a.ID, core.Expense, "120.50")
	t3 := mustTransaction(t, s, "u1", a.ID, core.Expense, "79.50")

	// 1000 + 500 - 120.50 - 79.50
	if got := accountBalance(t, s, "u1", a.ID); !got.Equal(dec("1300")) {
		t.Fatalf("balance = %s, want 1300", got)
	}

	// Flip t2 to income and raise its amount: delta = +200 - (-120.50)
	typ := core.Income
	amount := dec("200")
	if _, err := s.UpdateTransaction(ctx, "u1", t2.ID, UpdateTransactionParams{Type: &typ, Amount: &amount}); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if got := accountBalance(t, s, "u1", a.ID); !got.Equal(dec("1620.50")) {
		t.Fatalf("balance = %s, want 1620.50", got)
	}

	if err := s.DeleteTransaction(ctx, "u1", t1.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if got := accountBalance(t, s, "u1", a.ID); !got.Equal(dec("1120.50")) {
		t.Fatalf("balance = %s, want 1120.50", got)
	}

	_ = t3
	assertNoDrift(t, s, "u1")
}

func TestDeleteTransaction_Idempotent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "0")
	tr := mustTransaction(t, s, "u1", a.ID, core.Income, "40")

	if err := s.DeleteTransaction(ctx, "u1", tr.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if got := accountBalance(t, s, "u1", a.ID); !got.IsZero() {
		t.Fatalf("balance = %s after delete, want 0", got)
	}

	err := s.DeleteTransaction(ctx, "u1", tr.ID)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
	if got := accountBalance(t, s, "u1", a.ID); !got.IsZero() {
		t.Fatalf("balance = %s after second delete, want 0", got)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "bob", "Bob checking", "75")
	tr := mustTransaction(t, s, "bob", a.ID, core.Income, "10")

	if _, err := s.GetAccount(ctx, "alice", a.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetAccount cross-owner = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateAccount(ctx, "alice", a.ID, UpdateAccountParams{}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateAccount cross-owner = %v, want ErrNotFound", err)
	}
	if err := s.DeleteAccount(ctx, "alice", a.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("DeleteAccount cross-owner = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateTransaction(ctx, "alice", tr.ID, UpdateTransactionParams{}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateTransaction cross-owner = %v, want ErrNotFound", err)
	}
	if err := s.DeleteTransaction(ctx, "alice", tr.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("DeleteTransaction cross-owner = %v, want ErrNotFound", err)
	}

	// Bob's data is untouched by the rejected attempts.
	if got := accountBalance(t, s, "bob", a.ID); !got.Equal(dec("85")) {
		t.Errorf("balance = %s, want 85", got)
	}
	list, err := s.ListTransactions(ctx, "alice", TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("alice sees %d of bob's transactions", len(list))
	}
}

func TestUpdateTransaction_MoveBetweenAccounts(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "100")
	b := mustAccount(t, s, "u1", "Savings", "100")
	tr := mustTransaction(t, s, "u1", a.ID, core.Income, "30")

	// Move to account b, raising the amount: a loses +30, b gains +45.
	amount := dec("45")
	moved, err := s.UpdateTransaction(ctx, "u1", tr.ID, UpdateTransactionParams{
		AccountID: &b.ID,
		Amount:    &amount,
	})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if moved.AccountID != b.ID {
		t.Errorf("account = %s, want %s", moved.AccountID, b.ID)
	}
	if got := accountBalance(t, s, "u1", a.ID); !got.Equal(dec("100")) {
		t.Errorf("source balance = %s, want 100", got)
	}
	if got := accountBalance(t, s, "u1", b.ID); !got.Equal(dec("145")) {
		t.Errorf("target balance = %s, want 145", got)
	}
	assertNoDrift(t, s, "u1")
}

// failingPutStore wraps a store and fails any PutAccount for one account
// id, simulating a crash halfway through a two-account move.
type failingPutStore struct {
	store.Store
	failID string
}

func (f *failingPutStore) Update(ctx context.Context, fn func(store.Tx) error) error {
	return f.Store.Update(ctx, func(tx store.Tx) error {
		return fn(&failingPutTx{Tx: tx, failID: f.failID})
	})
}

type failingPutTx struct {
	store.Tx
	failID string
}

func (f *failingPutTx) PutAccount(ctx context.Context, a core.Account) error {
	if a.ID == f.failID {
		return errors.New("simulated write failure")
	}
	return f.Tx.PutAccount(ctx, a)
}

func TestUpdateTransaction_MoveIsAtomic(t *testing.T) {
	mem := memory.New()
	s := newTestServiceOn(t, mem)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "100")
	b := mustAccount(t, s, "u1", "Savings", "100")
	tr := mustTransaction(t, s, "u1", a.ID, core.Income, "30")

	// From here on, writes to account b fail mid-unit.
	s.store = &failingPutStore{Store: mem, failID: b.ID}

	_, err := s.UpdateTransaction(ctx, "u1", tr.ID, UpdateTransactionParams{AccountID: &b.ID})
	if err == nil {
		t.Fatal("UpdateTransaction succeeded despite write failure")
	}

	// Neither balance moved and the transaction still points at a.
	s.store = mem
	if got := accountBalance(t, s, "u1", a.ID); !got.Equal(dec("130")) {
		t.Errorf("source balance = %s, want 130", got)
	}
	if got := accountBalance(t, s, "u1", b.ID); !got.Equal(dec("100")) {
		t.Errorf("target balance = %s, want 100", got)
	}
	list, err := s.ListTransactions(ctx, "u1", TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].AccountID != a.ID {
		t.Errorf("transaction moved despite failed unit: %+v", list)
	}
	assertNoDrift(t, s, "u1")
}

func TestListTransactions_FilterAndOrder(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustAccount(t, s, "u1", "Checking", "0")

	t1 := mustTransaction(t, s, "u1", a.ID, core.Income, "1")
	t2 := mustTransaction(t, s, "u1", a.ID, core.Expense, "2")
	t3 := mustTransaction(t, s, "u1", a.ID, core.Income, "3")

	all, err := s.ListTransactions(ctx, "u1", TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != t3.ID || all[1].ID != t2.ID || all[2].ID != t1.ID {
		t.Errorf("order: got %v, want most recent first", ids(all))
	}

	incomes, err := s.ListTransactions(ctx, "u1", TransactionFilter{Type: core.Income})
	if err != nil {
		t.Fatal(err)
	}
	if len(incomes) != 2 || incomes[0].ID != t3.ID || incomes[1].ID != t1.ID {
		t.Errorf("income filter: got %v", ids(incomes))
	}

	if _, err := s.ListTransactions(ctx, "u1", TransactionFilter{Type: "transfer"}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("bad filter type = %v, want ErrValidation", err)
	}
}

func ids(ts []core.Transaction) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	actions []string
	ids     []string
}

func (r *recordingPublisher) PublishTransaction(_ context.Context, action string, t core.Transaction) error {
	r.actions = append(r.actions, action)
	r.ids = append(r.ids, t.ID)
	return nil
}

func TestTransactionEventsPublished(t *testing.T) {
	s := newTestService(t)
	pub := &recordingPublisher{}
	s.events = pub
	ctx := context.Background()

	a := mustAccount(t, s, "u1", "Checking", "0")
	tr := mustTransaction(t, s, "u1", a.ID, core.Income, "10")
	desc := "groceries"
	if _, err := s.UpdateTransaction(ctx, "u1", tr.ID, UpdateTransactionParams{Description: &desc}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTransaction(ctx, "u1", tr.ID); err != nil {
		t.Fatal(err)
	}

	want := []string{ActionCreated, ActionUpdated, ActionDeleted}
	if len(pub.actions) != len(want) {
		t.Fatalf("published %v, want %v", pub.actions, want)
	}
	for i := range want {
		if pub.actions[i] != want[i] || pub.ids[i] != tr.ID {
			t.Errorf("event %d = %s/%s, want %s/%s", i, pub.actions[i], pub.ids[i], want[i], tr.ID)
		}
	}
}
