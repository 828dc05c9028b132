package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	var balanceStr, openingStr string
	err := row.Scan(&account.Id, &account.Username, &account.Name, &account.PasswordHash,
		&balanceStr, &openingStr, &account.Version, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}

	account.Balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
	}
	account.OpeningBalance, err = decimal.NewFromString(openingStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse opening balance '%s': %w", openingStr, err)
	}
	return &account, nil
}

func (e *executor) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := scanAccount(e.q.QueryRowContext(ctx, queryGetAccountById+e.lockSuffix, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, id)
	}
	if err != nil {
		zap.L().Error("Failed to get account", zap.String("account_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (e *executor) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, err := scanAccount(e.q.QueryRowContext(ctx, queryGetAccountByUsername, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}
	return account, nil
}

func (e *executor) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := e.q.QueryContext(ctx, queryListAccounts)
	if err != nil {
		zap.L().Error("Failed to list accounts", zap.Error(err))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer closeRows(rows)

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	zap.L().Debug("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}

func (e *executor) SaveAccount(ctx context.Context, account *models.Account) error {
	if account.Id == "" {
		return e.insertAccount(ctx, account)
	}

	now := e.now()
	result, err := e.q.ExecContext(ctx, queryUpdateAccount,
		account.Name, account.PasswordHash, account.Balance.StringFixed(2),
		account.Version+1, now, account.Id, account.Version)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if _, err := e.GetAccount(ctx, account.Id); err != nil {
			return err
		}
		return fmt.Errorf("account update failed - %w", store.ErrConcurrentModification)
	}

	account.Version++
	account.UpdatedAt = now
	return nil
}

func (e *executor) insertAccount(ctx context.Context, account *models.Account) error {
	now := e.now()
	id := uuid.New().String()

	_, err := e.q.ExecContext(ctx, queryInsertAccount,
		id, account.Username, account.Name, account.PasswordHash,
		account.Balance.StringFixed(2), account.OpeningBalance.StringFixed(2), int64(1), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", store.ErrUsernameTaken, account.Username)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	account.Id = id
	account.Version = 1
	account.CreatedAt = now
	account.UpdatedAt = now

	zap.L().Info("Account created",
		zap.String("account_id", id),
		zap.String("username", account.Username),
		zap.String("opening_balance", account.OpeningBalance.StringFixed(2)))
	return nil
}
