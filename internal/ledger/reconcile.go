package ledger

import (
	"context"
	"errors"
	"fmt"

	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Reconcile replays an account's live entries from its opening balance and
// compares the result with the stored balance.
func (e *Engine) Reconcile(ctx context.Context, accountId string) (*models.Reconciliation, error) {
	if accountId == "" {
		return nil, invalidf("account id is required")
	}

	unlock := e.locks.lock(accountId)
	defer unlock()

	var rec *models.Reconciliation
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		account, err := tx.GetAccount(ctx, accountId)
		if err != nil {
			return err
		}
		entries, err := tx.ListEntriesByAccount(ctx, accountId, 0)
		if err != nil {
			return err
		}
		rec = replay(account, entries)
		return nil
	})
	if err != nil {
		return nil, e.fail("reconcile", accountId, err)
	}

	if !rec.Balanced {
		zap.L().Warn("Balance mismatch",
			zap.String("account_id", accountId),
			zap.String("balance", rec.Balance.String()),
			zap.String("expected", rec.Expected.String()),
			zap.String("difference", rec.Difference().String()))
	}
	return rec, nil
}

// ReconcileAll reconciles every account, one lock at a time. An account that
// fails is skipped; the failures come back joined after the whole sweep.
func (e *Engine) ReconcileAll(ctx context.Context) ([]models.Reconciliation, error) {
	accounts, err := e.store.ListAccounts(ctx)
	if err != nil {
		return nil, classify(err)
	}

	results := make([]models.Reconciliation, 0, len(accounts))
	var errs []error
	for _, account := range accounts {
		rec, err := e.Reconcile(ctx, account.Id)
		if err != nil {
			errs = append(errs, fmt.Errorf("account %s: %w", account.Id, err))
			continue
		}
		results = append(results, *rec)
	}
	return results, errors.Join(errs...)
}

func replay(account *models.Account, entries []models.Entry) *models.Reconciliation {
	totalIn, totalOut := decimal.Zero, decimal.Zero
	for _, entry := range entries {
		totalIn = totalIn.Add(entry.CashIn())
		totalOut = totalOut.Add(entry.CashOut())
	}
	expected := account.OpeningBalance.Add(totalIn).Sub(totalOut)

	return &models.Reconciliation{
		AccountId:      account.Id,
		Balance:        account.Balance,
		Expected:       expected,
		OpeningBalance: account.OpeningBalance,
		TotalCashIn:    totalIn,
		TotalCashOut:   totalOut,
		EntryCount:     len(entries),
		Balanced:       account.Balance.Equal(expected),
	}
}
