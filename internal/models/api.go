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

// AccountRef is the nested {"id": ...} reference used by deposit/withdraw bodies
type AccountRef struct {
	Id string `json:"id"`
}

// RegisterRequest is the body of POST /api/users/register
type RegisterRequest struct {
	Username string              `json:"username"`
	Name     string              `json:"name"`
	Password string              `json:"password"`
	Balance  decimal.NullDecimal `json:"balance"`
}

// LoginRequest is the body of POST /api/users/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EntryRequest is the body of deposit, withdraw and amend calls
type EntryRequest struct {
	User    *AccountRef     `json:"user,omitempty"`
	CashIn  decimal.Decimal `json:"cashIn"`
	CashOut decimal.Decimal `json:"cashOut"`
	Notes   string          `json:"notes"`
}

// AccountResponse is the public view of an account; the credential never leaves the service
type AccountResponse struct {
	Id        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntryResponse exposes an entry as a cashIn/cashOut pair; one side is always zero.
type EntryResponse struct {
	Id              string    `json:"id"`
	UserId          string    `json:"userId"`
	CashIn          string    `json:"cashIn"`
	CashOut         string    `json:"cashOut"`
	Type            EntryType `json:"type"`
	TransactionDate time.Time `json:"transactionDate"`
	Notes           string    `json:"notes,omitempty"`
	BalanceAfter    string    `json:"balanceAfter,omitempty"`
}

// ReconciliationResponse reports the balance invariant for one account
type ReconciliationResponse struct {
	AccountId      string `json:"accountId"`
	Balance        string `json:"balance"`
	Expected       string `json:"expected"`
	OpeningBalance string `json:"openingBalance"`
	TotalCashIn    string `json:"totalCashIn"`
	TotalCashOut   string `json:"totalCashOut"`
	EntryCount     int    `json:"entryCount"`
	Balanced       bool   `json:"balanced"`
}

// NewAccountResponse formats money with two fractional digits
func NewAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		Id:        a.Id,
		Username:  a.Username,
		Name:      a.Name,
		Balance:   a.Balance.StringFixed(2),
		CreatedAt: a.CreatedAt,
	}
}

func NewEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		Id:              e.Id,
		UserId:          e.AccountId,
		CashIn:          e.CashIn().StringFixed(2),
		CashOut:         e.CashOut().StringFixed(2),
		Type:            e.Type,
		TransactionDate: e.CreatedAt,
		Notes:           e.Note,
	}
}

func NewReconciliationResponse(r *Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		AccountId:      r.AccountId,
		Balance:        r.Balance.StringFixed(2),
		Expected:       r.Expected.StringFixed(2),
		OpeningBalance: r.OpeningBalance.StringFixed(2),
		TotalCashIn:    r.TotalCashIn.StringFixed(2),
		TotalCashOut:   r.TotalCashOut.StringFixed(2),
		EntryCount:     r.EntryCount,
		Balanced:       r.Balanced,
	}
}
