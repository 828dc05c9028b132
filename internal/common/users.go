package common

import (
	"context"
	"fmt"

	"moneybook-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UserInfo represents simplified account information for command-line utilities
type UserInfo struct {
	Id       string
	Username string
	Name     string
	Balance  decimal.Decimal
}

// InitializeUsers retrieves accounts based on an optional username filter.
// If usernameFilter is provided, returns the single matching account.
// If usernameFilter is empty, returns all accounts.
func InitializeUsers(ctx context.Context, ledgerStore store.LedgerStore, usernameFilter string, logger *zap.Logger) ([]UserInfo, error) {
	var users []UserInfo

	if usernameFilter != "" {
		logger.Info("Looking up account by username", zap.String("username", usernameFilter))
		account, err := ledgerStore.GetAccountByUsername(ctx, usernameFilter)
		if err != nil {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		users = append(users, UserInfo{
			Id:       account.Id,
			Username: account.Username,
			Name:     account.Name,
			Balance:  account.Balance,
		})
	} else {
		accounts, err := ledgerStore.ListAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get users: %w", err)
		}
		for _, a := range accounts {
			users = append(users, UserInfo{
				Id:       a.Id,
				Username: a.Username,
				Name:     a.Name,
				Balance:  a.Balance,
			})
		}
	}

	logger.Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}
