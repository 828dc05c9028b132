package database

import (
	"errors"
	"fmt"
	"net/url"

	"moneybook-ledger-go/internal/config"
	"moneybook-ledger-go/internal/models"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// dialect captures the few places where SQLite and Postgres differ.
type dialect struct {
	driver string
	// lockSuffix is appended to row reads made inside a transaction.
	lockSuffix string
}

var (
	sqliteDialect   = dialect{driver: config.DriverSQLite}
	postgresDialect = dialect{driver: config.DriverPostgres, lockSuffix: " FOR UPDATE"}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return sqliteDialect, nil
	case config.DriverPostgres:
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// dataSourceName builds the DSN handed to sql.Open.
func (d dialect) dataSourceName(cfg models.DatabaseConfig) (string, error) {
	if d.driver == config.DriverPostgres {
		if cfg.URL == "" {
			return "", fmt.Errorf("database url cannot be empty")
		}
		return cfg.URL, nil
	}

	if cfg.Path == "" {
		return "", fmt.Errorf("database path cannot be empty")
	}
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	params.Set("_cache_size", "1000")
	params.Set("_busy_timeout", "5000")
	params.Set("_txlock", "immediate")
	params.Set("_foreign_keys", "1")
	return cfg.Path + "?" + params.Encode(), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
