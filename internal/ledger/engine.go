/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ledger

import (
	"context"
	"fmt"
	"unicode/utf8"

	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxBalance is the largest balance the stores can hold (NUMERIC(20,2)).
var MaxBalance = decimal.RequireFromString("999999999999999999.99")

// Policy holds the validation rules applied before any write.
type Policy struct {
	// AllowNegativeBalance lets Amend and Delete push a balance below zero.
	// Withdraw never can.
	AllowNegativeBalance bool
	MaxNoteLength        int
	MaxAmount            decimal.Decimal
}

func PolicyFromConfig(cfg models.LedgerConfig) Policy {
	return Policy{
		AllowNegativeBalance: cfg.AllowNegativeBalance,
		MaxNoteLength:        cfg.MaxNoteLength,
		MaxAmount:            cfg.MaxAmount,
	}
}

// Result describes the effect of one engine operation.
type Result struct {
	Entry         models.Entry
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// Engine applies deposits, withdrawals, amendments and deletions while
// keeping each account balance equal to its opening balance plus the net
// effect of its live entries. Every operation holds the account's lock and
// runs in a single store transaction.
type Engine struct {
	store  store.LedgerStore
	policy Policy
	locks  *accountLocks
}

func New(s store.LedgerStore, policy Policy) *Engine {
	return &Engine{
		store:  s,
		policy: policy,
		locks:  newAccountLocks(),
	}
}

func (e *Engine) Deposit(ctx context.Context, accountId string, amount decimal.Decimal, note string) (*Result, error) {
	return e.record(ctx, models.EntryTypeCashIn, accountId, amount, note)
}

func (e *Engine) Withdraw(ctx context.Context, accountId string, amount decimal.Decimal, note string) (*Result, error) {
	return e.record(ctx, models.EntryTypeCashOut, accountId, amount, note)
}

func (e *Engine) record(ctx context.Context, entryType models.EntryType, accountId string, amount decimal.Decimal, note string) (*Result, error) {
	if accountId == "" {
		return nil, invalidf("account id is required")
	}
	if err := e.validate(amount, note); err != nil {
		return nil, err
	}

	unlock := e.locks.lock(accountId)
	defer unlock()

	var result *Result
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		account, err := tx.GetAccount(ctx, accountId)
		if err != nil {
			return err
		}

		entry := models.Entry{AccountId: accountId, Type: entryType, Amount: amount, Note: note}
		before := account.Balance
		after := before.Add(entry.Effect())
		if entryType == models.EntryTypeCashOut && after.IsNegative() {
			return fmt.Errorf("%w: balance %s, requested %s",
				ErrInsufficientFunds, before.StringFixed(2), amount.StringFixed(2))
		}
		if err := checkCeiling(after); err != nil {
			return err
		}

		account.Balance = after
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}
		if err := tx.SaveEntry(ctx, &entry); err != nil {
			return err
		}

		result = &Result{Entry: entry, BalanceBefore: before, BalanceAfter: after}
		return nil
	})
	if err != nil {
		return nil, e.fail("record", accountId, err, zap.String("type", string(entryType)))
	}

	zap.L().Info("Entry recorded",
		zap.String("entry_id", result.Entry.Id),
		zap.String("account_id", accountId),
		zap.String("type", string(entryType)),
		zap.String("amount", amount.String()),
		zap.String("old_balance", result.BalanceBefore.String()),
		zap.String("new_balance", result.BalanceAfter.String()))
	return result, nil
}

// Amend replaces the amount and note of an entry. The entry keeps its type
// and owner; the balance moves by the difference between the two amounts.
func (e *Engine) Amend(ctx context.Context, entryId string, amount decimal.Decimal, note string) (*Result, error) {
	if entryId == "" {
		return nil, invalidf("entry id is required")
	}
	if err := e.validate(amount, note); err != nil {
		return nil, err
	}

	return e.mutateEntry(ctx, "amend", entryId, func(ctx context.Context, tx store.Tx, entry *models.Entry, before decimal.Decimal) (decimal.Decimal, error) {
		after := before.Sub(entry.Effect())
		entry.Amount = amount
		entry.Note = note
		after = after.Add(entry.Effect())
		return after, e.checkBalance(entry, before, after)
	}, func(ctx context.Context, tx store.Tx, entry *models.Entry) error {
		return tx.SaveEntry(ctx, entry)
	})
}

// Delete removes an entry and reverses its contribution to the balance.
func (e *Engine) Delete(ctx context.Context, entryId string) (*Result, error) {
	if entryId == "" {
		return nil, invalidf("entry id is required")
	}

	return e.mutateEntry(ctx, "delete", entryId, func(ctx context.Context, tx store.Tx, entry *models.Entry, before decimal.Decimal) (decimal.Decimal, error) {
		after := before.Sub(entry.Effect())
		return after, e.checkBalance(entry, before, after)
	}, func(ctx context.Context, tx store.Tx, entry *models.Entry) error {
		return tx.DeleteEntry(ctx, entry)
	})
}

type balanceFunc func(ctx context.Context, tx store.Tx, entry *models.Entry, before decimal.Decimal) (decimal.Decimal, error)
type entryWriteFunc func(ctx context.Context, tx store.Tx, entry *models.Entry) error

// mutateEntry locks the entry's owner, re-reads both records inside the
// transaction, then saves the account before writing the entry.
func (e *Engine) mutateEntry(ctx context.Context, op, entryId string, apply balanceFunc, write entryWriteFunc) (*Result, error) {
	owner, err := e.store.GetEntry(ctx, entryId)
	if err != nil {
		return nil, e.fail(op, "", err, zap.String("entry_id", entryId))
	}

	unlock := e.locks.lock(owner.AccountId)
	defer unlock()

	var result *Result
	err = e.store.WithinTx(ctx, func(tx store.Tx) error {
		entry, err := tx.GetEntry(ctx, entryId)
		if err != nil {
			return err
		}
		account, err := tx.GetAccount(ctx, entry.AccountId)
		if err != nil {
			return err
		}

		before := account.Balance
		after, err := apply(ctx, tx, entry, before)
		if err != nil {
			return err
		}
		if err := checkCeiling(after); err != nil {
			return err
		}

		account.Balance = after
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}
		if err := write(ctx, tx, entry); err != nil {
			return err
		}

		result = &Result{Entry: *entry, BalanceBefore: before, BalanceAfter: after}
		return nil
	})
	if err != nil {
		return nil, e.fail(op, owner.AccountId, err, zap.String("entry_id", entryId))
	}

	zap.L().Info("Entry "+op+" applied",
		zap.String("entry_id", entryId),
		zap.String("account_id", owner.AccountId),
		zap.String("type", string(result.Entry.Type)),
		zap.String("amount", result.Entry.Amount.String()),
		zap.String("old_balance", result.BalanceBefore.String()),
		zap.String("new_balance", result.BalanceAfter.String()))
	return result, nil
}

func (e *Engine) checkBalance(entry *models.Entry, before, after decimal.Decimal) error {
	if !after.IsNegative() || !after.LessThan(before) {
		return nil
	}
	if !e.policy.AllowNegativeBalance {
		return fmt.Errorf("%w: balance would become %s", ErrInsufficientFunds, after.StringFixed(2))
	}
	zap.L().Warn("Balance driven negative",
		zap.String("entry_id", entry.Id),
		zap.String("account_id", entry.AccountId),
		zap.String("new_balance", after.String()))
	return nil
}

func checkCeiling(balance decimal.Decimal) error {
	if balance.GreaterThan(MaxBalance) {
		return invalidf("balance would exceed %s", MaxBalance.String())
	}
	return nil
}

func (e *Engine) validate(amount decimal.Decimal, note string) error {
	if !amount.IsPositive() {
		return invalidf("amount must be positive, got %s", amount.String())
	}
	if !amount.Equal(amount.Truncate(2)) {
		return invalidf("amount %s has more than 2 decimal places", amount.String())
	}
	if e.policy.MaxAmount.IsPositive() && amount.GreaterThan(e.policy.MaxAmount) {
		return invalidf("amount %s exceeds maximum %s", amount.String(), e.policy.MaxAmount.String())
	}
	if e.policy.MaxNoteLength > 0 && utf8.RuneCountInString(note) > e.policy.MaxNoteLength {
		return invalidf("note exceeds %d characters", e.policy.MaxNoteLength)
	}
	return nil
}

func (e *Engine) fail(op, accountId string, err error, fields ...zap.Field) error {
	err = classify(err)
	fields = append(fields, zap.String("op", op), zap.String("account_id", accountId), zap.Error(err))
	if IsValidation(err) {
		zap.L().Info("Ledger operation rejected", fields...)
	} else {
		zap.L().Error("Ledger operation failed", fields...)
	}
	return err
}

// SelectAmount picks the amount matching entryType from a cashIn/cashOut
// pair. The other field must be zero.
func SelectAmount(entryType models.EntryType, cashIn, cashOut decimal.Decimal) (decimal.Decimal, error) {
	switch entryType {
	case models.EntryTypeCashIn:
		if !cashOut.IsZero() {
			return decimal.Zero, invalidf("cashOut must be zero for a %s entry", entryType)
		}
		return cashIn, nil
	case models.EntryTypeCashOut:
		if !cashIn.IsZero() {
			return decimal.Zero, invalidf("cashIn must be zero for a %s entry", entryType)
		}
		return cashOut, nil
	default:
		return decimal.Zero, invalidf("unknown entry type %q", entryType)
	}
}
