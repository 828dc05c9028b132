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

func scanEntry(row rowScanner) (*models.Entry, error) {
	var entry models.Entry
	var entryType, amountStr string
	err := row.Scan(&entry.Id, &entry.AccountId, &entryType, &amountStr, &entry.Note, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	entry.Type = models.EntryType(entryType)
	if !entry.Type.Valid() {
		return nil, fmt.Errorf("entry %s has unknown type '%s'", entry.Id, entryType)
	}
	entry.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return &entry, nil
}

func (e *executor) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	entry, err := scanEntry(e.q.QueryRowContext(ctx, queryGetEntryById+e.lockSuffix, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrEntryNotFound, id)
	}
	if err != nil {
		zap.L().Error("Failed to get entry", zap.String("entry_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

func (e *executor) SaveEntry(ctx context.Context, entry *models.Entry) error {
	if entry.Id == "" {
		return e.insertEntry(ctx, entry)
	}

	result, err := e.q.ExecContext(ctx, queryUpdateEntry, entry.Amount.StringFixed(2), entry.Note, entry.Id)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrEntryNotFound, entry.Id)
	}

	updated, err := e.GetEntry(ctx, entry.Id)
	if err != nil {
		return err
	}
	*entry = *updated
	return nil
}

func (e *executor) insertEntry(ctx context.Context, entry *models.Entry) error {
	id := uuid.New().String()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = e.now()
	}

	_, err := e.q.ExecContext(ctx, queryInsertEntry,
		id, entry.AccountId, string(entry.Type), entry.Amount.StringFixed(2), entry.Note, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	entry.Id = id
	return nil
}

func (e *executor) DeleteEntry(ctx context.Context, entry *models.Entry) error {
	result, err := e.q.ExecContext(ctx, queryDeleteEntry, entry.Id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrEntryNotFound, entry.Id)
	}
	return nil
}

func (e *executor) ListEntriesByAccount(ctx context.Context, accountId string, limit int) ([]models.Entry, error) {
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = e.q.QueryContext(ctx, queryListEntriesByAccountLimit, accountId, limit)
	} else {
		rows, err = e.q.QueryContext(ctx, queryListEntriesByAccount, accountId)
	}
	if err != nil {
		zap.L().Error("Failed to list entries", zap.String("account_id", accountId), zap.Error(err))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer closeRows(rows)

	var entries []models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	zap.L().Debug("Retrieved entries",
		zap.String("account_id", accountId),
		zap.Int("limit", limit),
		zap.Int("count", len(entries)))
	return entries, nil
}
