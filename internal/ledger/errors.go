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
	"errors"
	"fmt"

	"moneybook-ledger-go/internal/store"
)

// Error kinds reported by the engine. Everything except ErrPersistence is
// detected before any write and leaves the ledger untouched.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrAccountNotFound   = store.ErrAccountNotFound
	ErrEntryNotFound     = store.ErrEntryNotFound
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPersistence       = errors.New("persistence failure")
)

// IsValidation reports whether err is a client fault that is safe to retry
// once the request is corrected.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrInsufficientFunds)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// classify wraps anything that is not a validation failure as ErrPersistence
// while keeping the store error reachable through errors.Is.
func classify(err error) error {
	if err == nil || IsValidation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
