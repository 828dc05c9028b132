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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"moneybook-ledger-go/internal/api"
	"moneybook-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type SeedAccount struct {
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	// Balance is optional; empty means the configured opening balance.
	Balance string `yaml:"balance"`
}

type SeedConfig struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

func LoadSeedAccounts(seedFile string) ([]SeedAccount, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, account := range config.Accounts {
		if strings.TrimSpace(account.Username) == "" {
			return nil, fmt.Errorf("account at index %d missing username", i)
		}
		if account.Password == "" {
			return nil, fmt.Errorf("account at index %d missing password", i)
		}
		if account.Balance != "" {
			if _, err := decimal.NewFromString(account.Balance); err != nil {
				return nil, fmt.Errorf("account at index %d has invalid balance %q: %w", i, account.Balance, err)
			}
		}
	}

	return config.Accounts, nil
}

// SeedAccounts registers every seed account, skipping usernames that
// already exist. It returns how many accounts were created.
func SeedAccounts(ctx context.Context, svc *api.LedgerService, accounts []SeedAccount) (int, error) {
	created := 0
	for _, seed := range accounts {
		req := models.RegisterRequest{
			Username: seed.Username,
			Name:     seed.Name,
			Password: seed.Password,
		}
		if seed.Balance != "" {
			req.Balance = decimal.NewNullDecimal(decimal.RequireFromString(seed.Balance))
		}

		account, err := svc.Register(ctx, req)
		if errors.Is(err, api.ErrUsernameTaken) {
			zap.L().Info("Seed account already exists", zap.String("username", seed.Username))
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", seed.Username, err)
		}

		created++
		zap.L().Info("Seed account created",
			zap.String("account_id", account.Id),
			zap.String("username", account.Username))
	}
	return created, nil
}
