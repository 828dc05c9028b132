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
	"errors"
	"fmt"
	"time"

	"moneybook-ledger-go/internal/events"
	"moneybook-ledger-go/internal/ledger"
	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"

	"go.uber.org/zap"
)

const (
	// RecentEntriesLimit is the size of the recent-activity listing.
	RecentEntriesLimit = 5

	publishTimeout = 5 * time.Second
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = store.ErrUsernameTaken
)

// LedgerService is the entry point used by the HTTP handlers and the CLI
// tools. Balance-changing calls go through the ledger engine; events are
// published after they commit.
type LedgerService struct {
	store     store.LedgerStore
	engine    *ledger.Engine
	publisher events.Publisher
	cfg       models.LedgerConfig
}

func NewLedgerService(s store.LedgerStore, engine *ledger.Engine, publisher events.Publisher, cfg models.LedgerConfig) *LedgerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LedgerService{
		store:     s,
		engine:    engine,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *LedgerService) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, eventType events.EventType, result *ledger.Result) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.NewLedgerEvent(eventType, result.Entry, result.BalanceBefore, result.BalanceAfter)
	if err := s.publisher.Publish(ctx, event); err != nil {
		zap.L().Warn("Failed to publish ledger event",
			zap.String("type", string(eventType)),
			zap.String("entry_id", result.Entry.Id),
			zap.Error(err))
	}
}

// storeError keeps not-found sentinels as they are and marks anything else
// as a persistence failure.
func storeError(err error) error {
	if ledger.IsValidation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ledger.ErrPersistence, err)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ledger.ErrInvalidRequest, msg)
}
