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

package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"moneybook-ledger-go/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// migrateSchema applies every pending migration for the dialect. The
// migrate instance is not closed since that would close db as well.
func migrateSchema(db *sql.DB, d dialect) error {
	dir, err := fs.Sub(migrationsFS, "migrations/"+d.driver)
	if err != nil {
		return fmt.Errorf("unable to locate migrations: %w", err)
	}
	source, err := iofs.New(dir, ".")
	if err != nil {
		return fmt.Errorf("unable to load migrations: %w", err)
	}

	var driver database.Driver
	switch d.driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	}
	if err != nil {
		return fmt.Errorf("unable to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, d.driver, driver)
	if err != nil {
		return fmt.Errorf("unable to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("unable to read schema version: %w", err)
	}
	zap.L().Info("Database schema up to date",
		zap.String("driver", d.driver),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}
