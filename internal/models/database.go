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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tags a ledger entry as a deposit or a withdrawal
type EntryType string

const (
	EntryTypeCashIn  EntryType = "CASHIN"
	EntryTypeCashOut EntryType = "CASHOUT"
)

func (t EntryType) Valid() bool {
	return t == EntryTypeCashIn || t == EntryTypeCashOut
}

// Account is a user's balance-holding record
type Account struct {
	Id             string          `db:"id"`
	Username       string          `db:"username"`
	Name           string          `db:"name"`
	PasswordHash   string          `db:"password_hash"`
	Balance        decimal.Decimal `db:"balance"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	Version        int64           `db:"version"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// Entry is one deposit or withdrawal against an account. Type decides the
// direction, Amount is always the non-negative magnitude.
type Entry struct {
	Id        string          `db:"id"`
	AccountId string          `db:"account_id"`
	Type      EntryType       `db:"entry_type"`
	Amount    decimal.Decimal `db:"amount"`
	Note      string          `db:"note"`
	CreatedAt time.Time       `db:"created_at"`
}

// Effect returns the signed contribution of the entry to its account balance.
func (e Entry) Effect() decimal.Decimal {
	if e.Type == EntryTypeCashOut {
		return e.Amount.Neg()
	}
	return e.Amount
}

func (e Entry) CashIn() decimal.Decimal {
	if e.Type == EntryTypeCashIn {
		return e.Amount
	}
	return decimal.Zero
}

func (e Entry) CashOut() decimal.Decimal {
	if e.Type == EntryTypeCashOut {
		return e.Amount
	}
	return decimal.Zero
}

// Reconciliation compares a stored balance with the replay of its entries
type Reconciliation struct {
	AccountId      string
	Balance        decimal.Decimal
	Expected       decimal.Decimal
	OpeningBalance decimal.Decimal
	TotalCashIn    decimal.Decimal
	TotalCashOut   decimal.Decimal
	EntryCount     int
	Balanced       bool
}

// Difference is stored balance minus expected balance
func (r Reconciliation) Difference() decimal.Decimal {
	return r.Balance.Sub(r.Expected)
}
