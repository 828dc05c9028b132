package main

import (
	"context"
	"flag"
	"fmt"

	"moneybook-ledger-go/internal/common"
	"moneybook-ledger-go/internal/config"
	"moneybook-ledger-go/internal/models"
	"moneybook-ledger-go/internal/store"

	"go.uber.org/zap"
)

type reportStats struct {
	totalUsers       int
	totalEntries     int
	usersWithEntries int
}

func printUserHeader(user common.UserInfo, entryCount int) {
	fmt.Printf("\n┌─ User: %s (%s)\n", user.Name, user.Username)
	fmt.Printf("│  ID: %s  Balance: %s\n", user.Id, common.FormatMoney(user.Balance))
	fmt.Printf("│  Entries: %d\n", entryCount)
	common.PrintBoxSeparator(98)
}

func printEntry(entry models.Entry, isLast bool) {
	fmt.Printf("%s %s  %-8s %-7s %14s  %s\n",
		common.BoxPrefix(isLast),
		entry.CreatedAt.Format("2006-01-02 15:04:05"),
		common.ShortId(entry.Id),
		entry.Type,
		common.SignedAmount(entry.Effect()),
		entry.Note)
}

func processUser(ctx context.Context, user common.UserInfo, ledgerStore store.LedgerStore, limit int) (int, error) {
	entries, err := ledgerStore.ListEntriesByAccount(ctx, user.Id, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to get entries: %w", err)
	}

	if len(entries) == 0 {
		return 0, nil
	}

	printUserHeader(user, len(entries))
	for i, entry := range entries {
		printEntry(entry, i == len(entries)-1)
	}

	return len(entries), nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	usernameFlag := flag.String("username", "", "Filter by specific username (optional)")
	limitFlag := flag.Int("limit", 0, "Maximum entries per user, newest first (0 = all)")
	flag.Parse()

	logger.Info("Starting history query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	users, err := common.InitializeUsers(ctx, services.Store, *usernameFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize users", zap.Error(err))
	}

	common.PrintHeader("ENTRY HISTORY REPORT", common.WideWidth)

	stats := reportStats{}
	for _, user := range users {
		stats.totalUsers++
		count, err := processUser(ctx, user, services.Store, *limitFlag)
		if err != nil {
			logger.Error("Failed to process user",
				zap.String("user_id", user.Id),
				zap.String("username", user.Username),
				zap.Error(err))
			continue
		}
		if count > 0 {
			stats.usersWithEntries++
			stats.totalEntries += count
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d users with entries (%d entries across %d users queried)",
		stats.usersWithEntries, stats.totalEntries, stats.totalUsers)
	common.PrintFooter(summary, common.WideWidth)
}
