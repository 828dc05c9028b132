package events

import (
	"context"
	"time"

	"moneybook-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type EventType string

const (
	EntryCreated EventType = "entry.created"
	EntryAmended EventType = "entry.amended"
	EntryDeleted EventType = "entry.deleted"
)

// LedgerEvent is emitted after a ledger operation has committed.
type LedgerEvent struct {
	Type          EventType        `json:"type"`
	AccountId     string           `json:"accountId"`
	EntryId       string           `json:"entryId"`
	EntryType     models.EntryType `json:"entryType"`
	Amount        string           `json:"amount"`
	Note          string           `json:"note,omitempty"`
	BalanceBefore string           `json:"balanceBefore"`
	BalanceAfter  string           `json:"balanceAfter"`
	OccurredAt    time.Time        `json:"occurredAt"`
}

func NewLedgerEvent(eventType EventType, entry models.Entry, before, after decimal.Decimal) LedgerEvent {
	return LedgerEvent{
		Type:          eventType,
		AccountId:     entry.AccountId,
		EntryId:       entry.Id,
		EntryType:     entry.Type,
		Amount:        entry.Amount.StringFixed(2),
		Note:          entry.Note,
		BalanceBefore: before.StringFixed(2),
		BalanceAfter:  after.StringFixed(2),
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, event LedgerEvent) error {
	zap.L().Debug("Event publishing disabled, dropping event",
		zap.String("type", string(event.Type)),
		zap.String("entry_id", event.EntryId))
	return nil
}

func (NopPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher when brokers are configured and a
// NopPublisher otherwise.
func NewPublisher(cfg models.KafkaConfig, logger *zap.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("No Kafka brokers configured, ledger events disabled")
		return NopPublisher{}
	}
	return NewKafkaPublisher(cfg, logger)
}
