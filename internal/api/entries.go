package api

import (
	"context"

	"moneybook-ledger-go/internal/events"
	"moneybook-ledger-go/internal/ledger"
	"moneybook-ledger-go/internal/models"
)

func (s *LedgerService) Deposit(ctx context.Context, req models.EntryRequest) (*ledger.Result, error) {
	if req.User == nil || req.User.Id == "" {
		return nil, invalid("user id is required")
	}
	amount, err := ledger.SelectAmount(models.EntryTypeCashIn, req.CashIn, req.CashOut)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Deposit(ctx, req.User.Id, amount, req.Notes)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntryCreated, result)
	return result, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, req models.EntryRequest) (*ledger.Result, error) {
	if req.User == nil || req.User.Id == "" {
		return nil, invalid("user id is required")
	}
	amount, err := ledger.SelectAmount(models.EntryTypeCashOut, req.CashIn, req.CashOut)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Withdraw(ctx, req.User.Id, amount, req.Notes)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntryCreated, result)
	return result, nil
}

// Amend takes the amount from whichever of cashIn/cashOut matches the
// stored entry's type; the other field must be zero.
func (s *LedgerService) Amend(ctx context.Context, entryId string, req models.EntryRequest) (*ledger.Result, error) {
	if entryId == "" {
		return nil, invalid("entry id is required")
	}
	entry, err := s.store.GetEntry(ctx, entryId)
	if err != nil {
		return nil, storeError(err)
	}
	amount, err := ledger.SelectAmount(entry.Type, req.CashIn, req.CashOut)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Amend(ctx, entryId, amount, req.Notes)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntryAmended, result)
	return result, nil
}

func (s *LedgerService) Delete(ctx context.Context, entryId string) (*ledger.Result, error) {
	result, err := s.engine.Delete(ctx, entryId)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntryDeleted, result)
	return result, nil
}
