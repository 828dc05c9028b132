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
	"fmt"

	"moneybook-ledger-go/internal/common"
	"moneybook-ledger-go/internal/config"
	"moneybook-ledger-go/internal/ledger"

	"go.uber.org/zap"
)

type balanceStats struct {
	totalUsers int
	balanced   int
	mismatched int
}

func printUser(user common.UserInfo, status string) {
	fmt.Printf("\n┌─ User: %s (%s)\n", user.Name, user.Username)
	fmt.Printf("│  ID: %s\n", user.Id)
	common.PrintBoxSeparator(78)
	fmt.Printf("%s %-15s: %20s  [%s]\n", common.BoxPrefix(true), "Balance", common.FormatMoney(user.Balance), status)
}

func processUsersAndGenerateReport(ctx context.Context, users []common.UserInfo, engine *ledger.Engine, logger *zap.Logger) balanceStats {
	stats := balanceStats{}

	for _, user := range users {
		stats.totalUsers++

		rec, err := engine.Reconcile(ctx, user.Id)
		if err != nil {
			logger.Error("Failed to reconcile user",
				zap.String("user_id", user.Id),
				zap.String("username", user.Username),
				zap.Error(err))
			printUser(user, "error")
			continue
		}

		status := "ok"
		if !rec.Balanced {
			stats.mismatched++
			status = fmt.Sprintf("MISMATCH expected %s", common.FormatMoney(rec.Expected))
		} else {
			stats.balanced++
		}
		printUser(user, status)
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	usernameFlag := flag.String("username", "", "Filter by specific username (optional)")
	flag.Parse()

	logger.Info("Starting balance query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	users, err := common.InitializeUsers(ctx, services.Store, *usernameFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize users", zap.Error(err))
	}

	common.PrintHeader("USER BALANCE REPORT", common.DefaultWidth)

	stats := processUsersAndGenerateReport(ctx, users, services.Engine, logger)

	summary := fmt.Sprintf("SUMMARY: %d users, %d balanced, %d mismatched",
		stats.totalUsers, stats.balanced, stats.mismatched)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Balance query completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("mismatched", stats.mismatched))
}
