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

package api

import (
	"context"

	"moneybook-ledger-go/internal/models"

	"go.uber.org/zap"
)

// ListEntries returns every live entry of an account, newest first.
func (s *LedgerService) ListEntries(ctx context.Context, accountId string) ([]models.Entry, error) {
	return s.listEntries(ctx, accountId, 0)
}

// RecentEntries returns the newest RecentEntriesLimit entries.
func (s *LedgerService) RecentEntries(ctx context.Context, accountId string) ([]models.Entry, error) {
	return s.listEntries(ctx, accountId, RecentEntriesLimit)
}

func (s *LedgerService) listEntries(ctx context.Context, accountId string, limit int) ([]models.Entry, error) {
	if _, err := s.GetAccount(ctx, accountId); err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntriesByAccount(ctx, accountId, limit)
	if err != nil {
		zap.L().Error("Failed to list entries", zap.String("account_id", accountId), zap.Error(err))
		return nil, storeError(err)
	}
	return entries, nil
}

func (s *LedgerService) Reconcile(ctx context.Context, accountId string) (*models.Reconciliation, error) {
	return s.engine.Reconcile(ctx, accountId)
}

func (s *LedgerService) ReconcileAll(ctx context.Context) ([]models.Reconciliation, error) {
	return s.engine.ReconcileAll(ctx)
}
