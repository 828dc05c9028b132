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
	"flag"

	"moneybook-ledger-go/internal/common"
	"moneybook-ledger-go/internal/config"

	"go.uber.org/zap"
)

// runSeed registers the accounts listed in the seed file.
func runSeed(ctx context.Context, services *common.Services, seedFile string) {
	zap.L().Info("Loading seed accounts", zap.String("file", seedFile))
	accounts, err := common.LoadSeedAccounts(seedFile)
	if err != nil {
		zap.L().Fatal("Failed to load seed accounts", zap.Error(err))
	}

	created, err := common.SeedAccounts(ctx, services.Ledger, accounts)
	if err != nil {
		zap.L().Fatal("Failed to seed accounts", zap.Int("created", created), zap.Error(err))
	}

	zap.L().Info("Seeding complete",
		zap.Int("accounts_in_file", len(accounts)),
		zap.Int("accounts_created", created))
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	seedFlag := flag.String("seed", "", "YAML file of accounts to create (defaults to SEED_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	// Opening the store applies any pending migrations.
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()
	zap.L().Info("Database schema ready", zap.String("driver", cfg.Database.Driver))

	seedFile := *seedFlag
	if seedFile == "" {
		seedFile = cfg.Database.SeedFile
	}
	if seedFile == "" {
		zap.L().Info("No seed file configured, skipping account seeding")
		return
	}

	runSeed(ctx, services, seedFile)
}
