package ledger

import (
	"context"
	"errors"
	"testing"

	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"
)

func TestReconcile_DetectsMismatch(t *testing.T) {
	engine, s, accountId := setupEngine(t, testPolicy())
	ctx := context.Background()

	if _, err := engine.Deposit(ctx, accountId, d("100"), ""); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if _, err := engine.Withdraw(ctx, accountId, d("30"), ""); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}

	rec, err := engine.Reconcile(ctx, accountId)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if !rec.Balanced || !rec.Expected.Equal(d("570")) {
		t.Fatalf("Expected balanced at 570, got %+v", rec)
	}
	if !rec.TotalCashIn.Equal(d("100")) || !rec.TotalCashOut.Equal(d("30")) || rec.EntryCount != 2 {
		t.Errorf("Unexpected totals: %+v", rec)
	}

	// Corrupt the stored balance behind the engine's back.
	account, _ := s.GetAccount(ctx, accountId)
	account.Balance = d("1000")
	if err := s.SaveAccount(ctx, account); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	rec, err = engine.Reconcile(ctx, accountId)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if rec.Balanced {
		t.Fatal("Expected mismatch to be detected")
	}
	if !rec.Difference().Equal(d("430")) {
		t.Errorf("Expected difference 430, got %s", rec.Difference())
	}
}

func TestReconcileAll(t *testing.T) {
	engine, s, _ := setupEngine(t, testPolicy())
	ctx := context.Background()

	other := &models.Account{Username: "bob", Balance: d("0"), OpeningBalance: d("0")}
	if err := s.SaveAccount(ctx, other); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}
	if _, err := engine.Deposit(ctx, other.Id, d("5"), ""); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	recs, err := engine.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("ReconcileAll failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(recs))
	}
	for _, rec := range recs {
		if !rec.Balanced {
			t.Errorf("Expected account %s balanced", rec.AccountId)
		}
	}
}

// unreadableStore fails entry listing for one account inside transactions.
type unreadableStore struct {
	store.LedgerStore
	accountId string
}

func (u *unreadableStore) WithinTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return u.LedgerStore.WithinTx(ctx, func(tx store.Tx) error {
		return fn(&unreadableTx{Tx: tx, accountId: u.accountId})
	})
}

type unreadableTx struct {
	store.Tx
	accountId string
}

func (u *unreadableTx) ListEntriesByAccount(ctx context.Context, accountId string, limit int) ([]models.Entry, error) {
	if accountId == u.accountId {
		return nil, errDiskFull
	}
	return u.Tx.ListEntriesByAccount(ctx, accountId, limit)
}

func TestReconcileAll_ContinuesPastFailedAccount(t *testing.T) {
	_, s, accountId := setupEngine(t, testPolicy())
	ctx := context.Background()

	other := &models.Account{Username: "bob", Balance: d("0"), OpeningBalance: d("0")}
	if err := s.SaveAccount(ctx, other); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	engine := New(&unreadableStore{LedgerStore: s, accountId: accountId}, testPolicy())
	recs, err := engine.ReconcileAll(ctx)
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, errDiskFull) {
		t.Fatalf("Expected joined persistence error, got %v", err)
	}
	if len(recs) != 1 || recs[0].AccountId != other.Id {
		t.Fatalf("Expected only bob reconciled, got %+v", recs)
	}
}
