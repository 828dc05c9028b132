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

package reconciler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"moneybook-ledger-go/internal/models"

	"go.uber.org/zap"
)

// Reconciler is the part of the ledger engine the sweep needs.
type Reconciler interface {
	ReconcileAll(ctx context.Context) ([]models.Reconciliation, error)
}

// Summary describes one sweep over all accounts.
type Summary struct {
	StartedAt  time.Time
	Duration   time.Duration
	Checked    int
	Mismatched []models.Reconciliation
	Err        error
}

// Service periodically checks every account's balance against its entries.
type Service struct {
	engine   Reconciler
	interval time.Duration

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
	started  atomic.Bool

	mu   sync.Mutex
	last *Summary
}

func NewService(engine Reconciler, interval time.Duration) *Service {
	return &Service{
		engine:   engine,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start runs a sweep immediately and then once per interval until Stop is
// called or ctx ends.
func (s *Service) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("reconcile interval must be positive, got %v", s.interval)
	}

	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("reconciler already started")
	}
	go s.pollLoop(ctx)

	zap.L().Info("Balance reconciler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop signals the loop and waits for the running sweep to finish.
func (s *Service) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopOnce.Do(func() {
		zap.L().Info("Stopping balance reconciler")
		close(s.stopChan)
		<-s.doneChan
		zap.L().Info("Balance reconciler stopped")
	})
}

func (s *Service) pollLoop(ctx context.Context) {
	defer close(s.doneChan)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Sweep reconciles every account once and records the outcome.
func (s *Service) Sweep(ctx context.Context) Summary {
	summary := Summary{StartedAt: time.Now().UTC()}

	results, err := s.engine.ReconcileAll(ctx)
	summary.Duration = time.Since(summary.StartedAt)
	summary.Checked = len(results)
	summary.Err = err
	for _, rec := range results {
		if !rec.Balanced {
			summary.Mismatched = append(summary.Mismatched, rec)
		}
	}

	if err != nil {
		zap.L().Error("Reconciliation sweep incomplete",
			zap.Int("checked", summary.Checked),
			zap.Error(err))
	}
	for _, rec := range summary.Mismatched {
		zap.L().Error("Account balance does not match its entries",
			zap.String("account_id", rec.AccountId),
			zap.String("balance", rec.Balance.String()),
			zap.String("expected", rec.Expected.String()),
			zap.String("difference", rec.Difference().String()))
	}
	if err == nil && len(summary.Mismatched) == 0 {
		zap.L().Debug("Reconciliation sweep clean",
			zap.Int("checked", summary.Checked),
			zap.Duration("duration", summary.Duration))
	}

	s.mu.Lock()
	s.last = &summary
	s.mu.Unlock()
	return summary
}

// LastSummary returns the most recent sweep, or nil before the first one.
func (s *Service) LastSummary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	summary := *s.last
	return &summary
}
