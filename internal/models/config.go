package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Ledger     LedgerConfig
	Kafka      KafkaConfig
	Reconciler ReconcilerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // sqlite3, postgres or memory
	Path            string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedFile        string
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	EnableH2C       bool
	AllowedOrigins  []string
}

// LedgerConfig holds balance and validation policy
type LedgerConfig struct {
	OpeningBalance       decimal.Decimal
	AllowNegativeBalance bool
	MaxNoteLength        int
	MaxAmount            decimal.Decimal
	BcryptCost           int
}

// KafkaConfig holds event stream settings. Empty Brokers disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ReconcilerConfig holds background reconciliation settings
type ReconcilerConfig struct {
	Interval time.Duration
}
