package database

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// querier is the subset shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// executor implements store.Tx on top of a querier. The Service uses one
// bound to the pool; WithinTx hands fn one bound to the open transaction.
type executor struct {
	q          querier
	lockSuffix string
	now        func() time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zap.L().Warn("Failed to close rows", zap.Error(err))
	}
}
