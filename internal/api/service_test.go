package api

import (
	"context"
	"errors"
	"sync"
	"testing"

	"moneybook-ledger-go/internal/events"
	"moneybook-ledger-go/internal/ledger"
	"moneybook-ledger-go/internal/memory"
	"moneybook-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.LedgerEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupService(t *testing.T) (*LedgerService, *recordingPublisher) {
	cfg := models.LedgerConfig{
		OpeningBalance:       d("500.00"),
		AllowNegativeBalance: true,
		MaxNoteLength:        100,
		MaxAmount:            d("99999999.99"),
		BcryptCost:           bcrypt.MinCost,
	}
	s := memory.NewStore()
	publisher := &recordingPublisher{}
	return NewLedgerService(s, ledger.New(s, ledger.PolicyFromConfig(cfg)), publisher, cfg), publisher
}

func register(t *testing.T, svc *LedgerService, username string) *models.Account {
	account, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Name:     "Test User",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return account
}

func TestRegister_DefaultsAndDuplicates(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	account := register(t, svc, "alice")
	if !account.Balance.Equal(d("500")) || !account.OpeningBalance.Equal(d("500")) {
		t.Errorf("Expected default opening balance 500, got %s", account.Balance)
	}
	if account.PasswordHash == "secret" || account.PasswordHash == "" {
		t.Errorf("Expected password to be hashed")
	}

	_, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Password: "x"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}

	custom, err := svc.Register(ctx, models.RegisterRequest{
		Username: "bob",
		Password: "x",
		Balance:  decimal.NewNullDecimal(d("42.50")),
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !custom.Balance.Equal(d("42.5")) || custom.Name != "bob" {
		t.Errorf("Expected balance 42.50 and name defaulted to username, got %s %q", custom.Balance, custom.Name)
	}
}

func TestRegister_Invalid(t *testing.T) {
	svc, _ := setupService(t)

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"missing username", models.RegisterRequest{Password: "x"}},
		{"blank username", models.RegisterRequest{Username: "  ", Password: "x"}},
		{"missing password", models.RegisterRequest{Username: "carol"}},
		{"negative balance", models.RegisterRequest{Username: "carol", Password: "x", Balance: decimal.NewNullDecimal(d("-1"))}},
		{"three decimals", models.RegisterRequest{Username: "carol", Password: "x", Balance: decimal.NewNullDecimal(d("1.001"))}},
		{"balance above ceiling", models.RegisterRequest{Username: "carol", Password: "x", Balance: decimal.NewNullDecimal(ledger.MaxBalance.Add(d("0.01")))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			if !errors.Is(err, ledger.ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	account := register(t, svc, "alice")

	got, err := svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got.Id != account.Id {
		t.Errorf("Expected %s, got %s", account.Id, got.Id)
	}

	for _, req := range []models.LoginRequest{
		{Username: "alice", Password: "wrong"},
		{Username: "nobody", Password: "secret"},
		{Username: "alice"},
	} {
		if _, err := svc.Login(ctx, req); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for %+v, got %v", req, err)
		}
	}
}

func TestEntryLifecyclePublishesEvents(t *testing.T) {
	svc, publisher := setupService(t)
	ctx := context.Background()
	account := register(t, svc, "alice")
	ref := &models.AccountRef{Id: account.Id}

	dep, err := svc.Deposit(ctx, models.EntryRequest{User: ref, CashIn: d("100"), Notes: "pay"})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	wd, err := svc.Withdraw(ctx, models.EntryRequest{User: ref, CashOut: d("50")})
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if _, err := svc.Amend(ctx, dep.Entry.Id, models.EntryRequest{CashIn: d("150")}); err != nil {
		t.Fatalf("Amend failed: %v", err)
	}
	if _, err := svc.Delete(ctx, wd.Entry.Id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	balance, err := svc.Balance(ctx, account.Id)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !balance.Equal(d("650")) {
		t.Errorf("Expected balance 650, got %s", balance)
	}

	want := []events.EventType{events.EntryCreated, events.EntryCreated, events.EntryAmended, events.EntryDeleted}
	if len(publisher.events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(publisher.events))
	}
	for i, eventType := range want {
		if publisher.events[i].Type != eventType {
			t.Errorf("Event %d: expected %s, got %s", i, eventType, publisher.events[i].Type)
		}
	}
	if publisher.events[3].BalanceAfter != "650.00" {
		t.Errorf("Expected final event balance 650.00, got %s", publisher.events[3].BalanceAfter)
	}
}

func TestAmend_RejectsMismatchedField(t *testing.T) {
	svc, publisher := setupService(t)
	ctx := context.Background()
	account := register(t, svc, "alice")

	dep, err := svc.Deposit(ctx, models.EntryRequest{User: &models.AccountRef{Id: account.Id}, CashIn: d("100")})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	_, err = svc.Amend(ctx, dep.Entry.Id, models.EntryRequest{CashIn: d("100"), CashOut: d("30")})
	if !errors.Is(err, ledger.ErrInvalidRequest) {
		t.Fatalf("Expected ErrInvalidRequest, got %v", err)
	}
	if balance, _ := svc.Balance(ctx, account.Id); !balance.Equal(d("600")) {
		t.Errorf("Expected balance 600, got %s", balance)
	}
	if len(publisher.events) != 1 {
		t.Errorf("Expected only the deposit event, got %d", len(publisher.events))
	}

	if _, err := svc.Amend(ctx, "missing", models.EntryRequest{CashIn: d("1")}); !errors.Is(err, ledger.ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestDeposit_RequiresUser(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Deposit(context.Background(), models.EntryRequest{CashIn: d("10")})
	if !errors.Is(err, ledger.ErrInvalidRequest) {
		t.Fatalf("Expected ErrInvalidRequest, got %v", err)
	}
	_, err = svc.Withdraw(context.Background(), models.EntryRequest{User: &models.AccountRef{Id: "nope"}, CashOut: d("10")})
	if !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Fatalf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	svc, publisher := setupService(t)
	publisher.err = errors.New("broker down")
	account := register(t, svc, "alice")

	_, err := svc.Deposit(context.Background(), models.EntryRequest{User: &models.AccountRef{Id: account.Id}, CashIn: d("1")})
	if err != nil {
		t.Fatalf("Expected deposit to succeed despite publish failure, got %v", err)
	}
}

func TestRecentEntries(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	account := register(t, svc, "alice")
	ref := &models.AccountRef{Id: account.Id}

	for i := 1; i <= 7; i++ {
		if _, err := svc.Deposit(ctx, models.EntryRequest{User: ref, CashIn: decimal.NewFromInt(int64(i))}); err != nil {
			t.Fatalf("Deposit failed: %v", err)
		}
	}

	recent, err := svc.RecentEntries(ctx, account.Id)
	if err != nil {
		t.Fatalf("RecentEntries failed: %v", err)
	}
	if len(recent) != RecentEntriesLimit {
		t.Fatalf("Expected %d entries, got %d", RecentEntriesLimit, len(recent))
	}
	if !recent[0].Amount.Equal(d("7")) {
		t.Errorf("Expected newest entry first, got %s", recent[0].Amount)
	}

	all, err := svc.ListEntries(ctx, account.Id)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(all) != 7 {
		t.Errorf("Expected 7 entries, got %d", len(all))
	}

	if _, err := svc.ListEntries(ctx, "missing"); !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}

	rec, err := svc.Reconcile(ctx, account.Id)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if !rec.Balanced || !rec.Balance.Equal(d("528")) {
		t.Errorf("Expected balanced at 528, got %+v", rec)
	}
}

func TestHealthCheck(t *testing.T) {
	svc, _ := setupService(t)
	if err := svc.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}
