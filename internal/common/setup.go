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

package common

import (
	"context"
	"log"
	"strings"

	"moneybook-ledger-go/internal/api"
	"moneybook-ledger-go/internal/config"
	"moneybook-ledger-go/internal/database"
	"moneybook-ledger-go/internal/events"
	"moneybook-ledger-go/internal/ledger"
	"moneybook-ledger-go/internal/memory"
	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store     store.LedgerStore
	Engine    *ledger.Engine
	Publisher events.Publisher
	Ledger    *api.LedgerService
}

func InitializeLogger() (*zap.Logger, func()) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeStore opens the backend selected by DB_DRIVER.
func InitializeStore(ctx context.Context, cfg *models.Config) (store.LedgerStore, error) {
	if cfg.Database.Driver == config.DriverMemory {
		zap.L().Warn("Using in-memory store, data will not survive a restart")
		return memory.NewStore(), nil
	}
	return database.NewService(ctx, cfg.Database)
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	ledgerStore, err := InitializeStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine := ledger.New(ledgerStore, ledger.PolicyFromConfig(cfg.Ledger))
	publisher := events.NewPublisher(cfg.Kafka, zap.L().With(zap.String("component", "LedgerEvents")))

	zap.L().Info("Ledger services initialized",
		zap.String("driver", cfg.Database.Driver),
		zap.String("opening_balance", cfg.Ledger.OpeningBalance.StringFixed(2)),
		zap.Bool("allow_negative_balance", cfg.Ledger.AllowNegativeBalance))

	return &Services{
		Store:     ledgerStore,
		Engine:    engine,
		Publisher: publisher,
		Ledger:    api.NewLedgerService(ledgerStore, engine, publisher, cfg.Ledger),
	}, nil
}

func (cs *Services) Close() {
	if cs.Publisher != nil {
		if err := cs.Publisher.Close(); err != nil {
			zap.L().Warn("Failed to close event publisher", zap.Error(err))
		}
	}
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
