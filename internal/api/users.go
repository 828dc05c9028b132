package api

import (
	"context"
	"errors"
	"strings"

	"moneybook-ledger-go/internal/ledger"
	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an account with either the caller's opening balance or
// the configured default.
func (s *LedgerService) Register(ctx context.Context, req models.RegisterRequest) (*models.Account, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, invalid("username is required")
	}
	if req.Password == "" {
		return nil, invalid("password is required")
	}

	opening := s.cfg.OpeningBalance
	if req.Balance.Valid {
		opening = req.Balance.Decimal
		if opening.IsNegative() {
			return nil, invalid("opening balance cannot be negative")
		}
		if !opening.Equal(opening.Truncate(2)) {
			return nil, invalid("opening balance has more than 2 decimal places")
		}
		if opening.GreaterThan(ledger.MaxBalance) {
			return nil, invalid("opening balance exceeds " + ledger.MaxBalance.String())
		}
	}

	cost := s.cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, invalid("password is too long")
		}
		return nil, storeError(err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = username
	}
	account := &models.Account{
		Username:       username,
		Name:           name,
		PasswordHash:   string(hash),
		Balance:        opening,
		OpeningBalance: opening,
	}
	if err := s.store.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil, err
		}
		zap.L().Error("Failed to register account", zap.String("username", username), zap.Error(err))
		return nil, storeError(err)
	}

	zap.L().Info("Account registered",
		zap.String("account_id", account.Id),
		zap.String("username", username),
		zap.String("opening_balance", opening.StringFixed(2)))
	return account, nil
}

// Login returns the account when the password matches its stored hash.
func (s *LedgerService) Login(ctx context.Context, req models.LoginRequest) (*models.Account, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.store.GetAccountByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, store.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		zap.L().Info("Login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

func (s *LedgerService) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	if accountId == "" {
		return nil, invalid("account id is required")
	}
	account, err := s.store.GetAccount(ctx, accountId)
	if err != nil {
		return nil, storeError(err)
	}
	return account, nil
}

func (s *LedgerService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		zap.L().Error("Failed to list accounts", zap.Error(err))
		return nil, storeError(err)
	}
	return accounts, nil
}

// Balance is a convenience for callers that only need the current figure.
func (s *LedgerService) Balance(ctx context.Context, accountId string) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, accountId)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}
