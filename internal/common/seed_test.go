package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"moneybook-ledger-go/internal/api"
	"moneybook-ledger-go/internal/ledger"
	"moneybook-ledger-go/internal/memory"
	"moneybook-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func writeSeedFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}
	return path
}

func TestLoadSeedAccounts(t *testing.T) {
	path := writeSeedFile(t, `
accounts:
  - username: alice
    name: Alice Johnson
    password: secret
  - username: bob
    name: Bob Smith
    password: hunter2
    balance: "1200.50"
`)

	accounts, err := LoadSeedAccounts(path)
	if err != nil {
		t.Fatalf("LoadSeedAccounts failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(accounts))
	}
	if accounts[1].Balance != "1200.50" || accounts[0].Balance != "" {
		t.Errorf("Unexpected balances: %+v", accounts)
	}
}

func TestLoadSeedAccounts_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing username", "accounts:\n  - password: x\n"},
		{"missing password", "accounts:\n  - username: alice\n"},
		{"bad balance", "accounts:\n  - username: alice\n    password: x\n    balance: lots\n"},
		{"not yaml", "accounts: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSeedAccounts(writeSeedFile(t, tt.content)); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}

	if _, err := LoadSeedAccounts(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSeedAccounts_SkipsExisting(t *testing.T) {
	cfg := models.LedgerConfig{
		OpeningBalance: decimal.RequireFromString("500"),
		MaxNoteLength:  500,
		MaxAmount:      decimal.RequireFromString("1000"),
		BcryptCost:     bcrypt.MinCost,
	}
	s := memory.NewStore()
	svc := api.NewLedgerService(s, ledger.New(s, ledger.PolicyFromConfig(cfg)), nil, cfg)

	seeds := []SeedAccount{
		{Username: "alice", Password: "x"},
		{Username: "bob", Password: "y", Balance: "42"},
	}

	created, err := SeedAccounts(context.Background(), svc, seeds)
	if err != nil || created != 2 {
		t.Fatalf("Expected 2 created, got %d (%v)", created, err)
	}

	created, err = SeedAccounts(context.Background(), svc, seeds)
	if err != nil || created != 0 {
		t.Fatalf("Expected 0 created on rerun, got %d (%v)", created, err)
	}

	bob, err := s.GetAccountByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetAccountByUsername failed: %v", err)
	}
	if !bob.Balance.Equal(decimal.RequireFromString("42")) {
		t.Errorf("Expected bob balance 42, got %s", bob.Balance)
	}
}

func TestShortIdAndSignedAmount(t *testing.T) {
	if got := ShortId("0123456789"); got != "01234567..." {
		t.Errorf("Unexpected short id %q", got)
	}
	if got := ShortId(""); got != "none" {
		t.Errorf("Unexpected short id %q", got)
	}
	if got := SignedAmount(decimal.RequireFromString("-5")); got != "-5.00" {
		t.Errorf("Unexpected signed amount %q", got)
	}
	if got := SignedAmount(decimal.RequireFromString("5")); got != "+5.00" {
		t.Errorf("Unexpected signed amount %q", got)
	}
}
