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

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"moneybook-ledger-go/internal/common"
	"moneybook-ledger-go/internal/config"
	"moneybook-ledger-go/internal/handler"
	"moneybook-ledger-go/internal/reconciler"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	var h http.Handler = handler.NewRouter(services.Ledger, cfg.Server, logger)
	if cfg.Server.EnableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
		logger.Info("HTTP/2 cleartext enabled")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var sweeper *reconciler.Service
	if cfg.Reconciler.Interval > 0 {
		sweeper = reconciler.NewService(services.Engine, cfg.Reconciler.Interval)
		if err := sweeper.Start(ctx); err != nil {
			logger.Fatal("Failed to start reconciler", zap.Error(err))
		}
	} else {
		logger.Info("Background reconciliation disabled (RECONCILE_INTERVAL=0)")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if sweeper != nil {
			sweeper.Stop()
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Forced shutdown after timeout", zap.Error(err))
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped gracefully")
}
