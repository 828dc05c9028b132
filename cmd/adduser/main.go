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
	"strings"

	"moneybook-ledger-go/internal/common"
	"moneybook-ledger-go/internal/config"
	"moneybook-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	return nil
}

func parseBalance(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid balance %q: %w", raw, err)
	}
	return decimal.NewNullDecimal(balance), nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	usernameFlag := flag.String("username", "", "Username for the new account (required)")
	nameFlag := flag.String("name", "", "Display name (defaults to username)")
	passwordFlag := flag.String("password", "", "Password for the new account (required)")
	balanceFlag := flag.String("balance", "", "Opening balance (defaults to LEDGER_OPENING_BALANCE)")
	flag.Parse()

	if err := validateUsername(*usernameFlag); err != nil {
		logger.Fatal("Invalid username", zap.Error(err))
	}
	if *passwordFlag == "" {
		logger.Fatal("Password is required")
	}
	balance, err := parseBalance(*balanceFlag)
	if err != nil {
		logger.Fatal("Invalid balance", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	account, err := services.Ledger.Register(ctx, models.RegisterRequest{
		Username: *usernameFlag,
		Name:     *nameFlag,
		Password: *passwordFlag,
		Balance:  balance,
	})
	if err != nil {
		logger.Fatal("Failed to create account", zap.String("username", *usernameFlag), zap.Error(err))
	}

	common.PrintHeader("ACCOUNT CREATED", common.DefaultWidth)
	fmt.Printf("ID:       %s\n", account.Id)
	fmt.Printf("Username: %s\n", account.Username)
	fmt.Printf("Name:     %s\n", account.Name)
	fmt.Printf("Balance:  %s\n", common.FormatMoney(account.Balance))
	common.PrintFooter("Account ready", common.DefaultWidth)
}
