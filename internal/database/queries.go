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

package database

const (
	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (id, username, name, password_hash, balance, opening_balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	querySelectAccount = `
		SELECT id, username, name, password_hash, balance, opening_balance, version, created_at, updated_at
		FROM accounts`

	queryGetAccountById = querySelectAccount + `
		WHERE id = $1`

	queryGetAccountByUsername = querySelectAccount + `
		WHERE lower(username) = lower($1)`

	queryListAccounts = querySelectAccount + `
		ORDER BY created_at, username`

	queryUpdateAccount = `
		UPDATE accounts
		SET name = $1, password_hash = $2, balance = $3, version = $4, updated_at = $5
		WHERE id = $6 AND version = $7`

	// Entry queries
	queryInsertEntry = `
		INSERT INTO entries (id, account_id, entry_type, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	querySelectEntry = `
		SELECT id, account_id, entry_type, amount, note, created_at
		FROM entries`

	queryGetEntryById = querySelectEntry + `
		WHERE id = $1`

	queryListEntriesByAccount = querySelectEntry + `
		WHERE account_id = $1
		ORDER BY seq DESC`

	queryListEntriesByAccountLimit = queryListEntriesByAccount + `
		LIMIT $2`

	queryUpdateEntry = `
		UPDATE entries
		SET amount = $1, note = $2
		WHERE id = $3`

	queryDeleteEntry = `
		DELETE FROM entries
		WHERE id = $1`
)
