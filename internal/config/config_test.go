package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Expected driver %s, got %s", DriverSQLite, cfg.Database.Driver)
	}
	if !cfg.Ledger.OpeningBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected opening balance 500, got %s", cfg.Ledger.OpeningBalance)
	}
	if !cfg.Ledger.AllowNegativeBalance {
		t.Errorf("Expected negative balances to be allowed by default")
	}
	if cfg.Ledger.MaxNoteLength != 500 {
		t.Errorf("Expected max note length 500, got %d", cfg.Ledger.MaxNoteLength)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("Expected no kafka brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Reconciler.Interval != 0 {
		t.Errorf("Expected reconciler disabled, got %v", cfg.Reconciler.Interval)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("LEDGER_OPENING_BALANCE", "0")
	t.Setenv("LEDGER_ALLOW_NEGATIVE_BALANCE", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RECONCILE_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != DriverMemory {
		t.Errorf("Expected driver memory, got %s", cfg.Database.Driver)
	}
	if !cfg.Ledger.OpeningBalance.IsZero() {
		t.Errorf("Expected opening balance 0, got %s", cfg.Ledger.OpeningBalance)
	}
	if cfg.Ledger.AllowNegativeBalance {
		t.Errorf("Expected negative balances to be rejected")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.Reconciler.Interval != time.Minute {
		t.Errorf("Expected 1m interval, got %v", cfg.Reconciler.Interval)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DB_PING_TIMEOUT", "soon"},
		{"LEDGER_OPENING_BALANCE", "lots"},
		{"LEDGER_OPENING_BALANCE", "-1"},
		{"DB_DRIVER", "oracle"},
		{"DB_DRIVER", "postgres"},
		{"LEDGER_MAX_AMOUNT", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
