package main

import (
	"context"
	"flag"
	"fmt"

	"moneybook-ledger-go/internal/common"
	"moneybook-ledger-go/internal/config"
	"moneybook-ledger-go/internal/ledger"
	"moneybook-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type entryFlags struct {
	op       string
	username string
	entryId  string
	amount   string
	note     string
}

func parseFlags() entryFlags {
	var f entryFlags
	flag.StringVar(&f.op, "op", "", "Operation: deposit, withdraw, amend or delete")
	flag.StringVar(&f.username, "user", "", "Username (deposit, withdraw)")
	flag.StringVar(&f.entryId, "entry", "", "Entry id (amend, delete)")
	flag.StringVar(&f.amount, "amount", "", "Amount (deposit, withdraw, amend)")
	flag.StringVar(&f.note, "note", "", "Optional note")
	flag.Parse()
	return f
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("-amount is required")
	}
	return decimal.NewFromString(raw)
}

func run(ctx context.Context, services *common.Services, f entryFlags) (*ledger.Result, error) {
	switch f.op {
	case "deposit", "withdraw":
		if f.username == "" {
			return nil, fmt.Errorf("-user is required for %s", f.op)
		}
		account, err := services.Store.GetAccountByUsername(ctx, f.username)
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(f.amount)
		if err != nil {
			return nil, err
		}
		req := models.EntryRequest{User: &models.AccountRef{Id: account.Id}, Notes: f.note}
		if f.op == "deposit" {
			req.CashIn = amount
			return services.Ledger.Deposit(ctx, req)
		}
		req.CashOut = amount
		return services.Ledger.Withdraw(ctx, req)

	case "amend":
		if f.entryId == "" {
			return nil, fmt.Errorf("-entry is required for amend")
		}
		amount, err := parseAmount(f.amount)
		if err != nil {
			return nil, err
		}
		entry, err := services.Store.GetEntry(ctx, f.entryId)
		if err != nil {
			return nil, err
		}
		req := models.EntryRequest{Notes: f.note}
		if entry.Type == models.EntryTypeCashOut {
			req.CashOut = amount
		} else {
			req.CashIn = amount
		}
		return services.Ledger.Amend(ctx, f.entryId, req)

	case "delete":
		if f.entryId == "" {
			return nil, fmt.Errorf("-entry is required for delete")
		}
		return services.Ledger.Delete(ctx, f.entryId)
	}
	return nil, fmt.Errorf("unknown operation %q", f.op)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	f := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	result, err := run(ctx, services, f)
	if err != nil {
		logger.Fatal("Operation failed", zap.String("op", f.op), zap.Error(err))
	}

	common.PrintHeader("ENTRY "+f.op, common.DefaultWidth)
	fmt.Printf("Entry:   %s\n", result.Entry.Id)
	fmt.Printf("Type:    %s\n", result.Entry.Type)
	fmt.Printf("Amount:  %s\n", common.FormatMoney(result.Entry.Amount))
	fmt.Printf("Balance: %s -> %s\n", common.FormatMoney(result.BalanceBefore), common.FormatMoney(result.BalanceAfter))
	common.PrintFooter("Done", common.DefaultWidth)
}
