package store

import (
	"context"
	"errors"

	"moneybook-ledger-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrEntryNotFound          = errors.New("entry not found")
	ErrUsernameTaken          = errors.New("username already exists")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// AccountStore fetches and persists accounts.
type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	// SaveAccount inserts when Id is empty (assigning Id, Version and timestamps)
	// and otherwise updates balance and profile fields, guarded by Version.
	SaveAccount(ctx context.Context, account *models.Account) error
}

// EntryStore fetches and persists ledger entries.
type EntryStore interface {
	GetEntry(ctx context.Context, id string) (*models.Entry, error)
	// SaveEntry inserts when Id is empty (assigning Id and CreatedAt) and
	// otherwise overwrites amount and note of the stored entry.
	SaveEntry(ctx context.Context, entry *models.Entry) error
	DeleteEntry(ctx context.Context, entry *models.Entry) error
	// ListEntriesByAccount returns entries newest first; limit <= 0 means all.
	ListEntriesByAccount(ctx context.Context, accountId string, limit int) ([]models.Entry, error)
}

// Tx is the set of operations available inside a unit of work.
type Tx interface {
	AccountStore
	EntryStore
}

// LedgerStore defines the contract that every backend (SQLite, Postgres, memory) must satisfy.
type LedgerStore interface {
	Tx

	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// WithinTx runs fn in a single atomic unit: either every write made
	// through tx is committed or none is. The error returned by fn is
	// returned unchanged after rollback.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close()
}
