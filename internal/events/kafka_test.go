package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"moneybook-ledger-go/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func testEvent() LedgerEvent {
	entry := models.Entry{
		Id:        "entry-1",
		AccountId: "account-1",
		Type:      models.EntryTypeCashIn,
		Amount:    decimal.RequireFromString("100"),
		Note:      "salary",
	}
	return NewLedgerEvent(EntryCreated, entry, decimal.RequireFromString("500"), decimal.RequireFromString("600"))
}

func TestNewLedgerEvent(t *testing.T) {
	event := testEvent()

	if event.Amount != "100.00" || event.BalanceBefore != "500.00" || event.BalanceAfter != "600.00" {
		t.Errorf("Expected fixed two-digit amounts, got %+v", event)
	}
	if event.OccurredAt.IsZero() {
		t.Error("Expected OccurredAt to be set")
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &KafkaPublisher{writer: writer, topic: "ledger-events", logger: zap.NewNop()}

	if err := publisher.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(writer.messages))
	}

	msg := writer.messages[0]
	if string(msg.Key) != "account-1" {
		t.Errorf("Expected key account-1, got %s", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != string(EntryCreated) {
		t.Errorf("Expected event-type header, got %+v", msg.Headers)
	}

	var decoded LedgerEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if decoded.EntryId != "entry-1" || decoded.Type != EntryCreated {
		t.Errorf("Unexpected payload: %+v", decoded)
	}

	if err := publisher.Close(); err != nil || !writer.closed {
		t.Errorf("Expected writer to be closed, err=%v", err)
	}
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	brokerDown := errors.New("broker down")
	publisher := &KafkaPublisher{writer: &recordingWriter{err: brokerDown}, topic: "t", logger: zap.NewNop()}

	err := publisher.Publish(context.Background(), testEvent())
	if !errors.Is(err, brokerDown) {
		t.Fatalf("Expected broker error, got %v", err)
	}
}

func TestNewPublisher_NoBrokers(t *testing.T) {
	publisher := NewPublisher(models.KafkaConfig{}, zap.NewNop())
	if _, ok := publisher.(NopPublisher); !ok {
		t.Fatalf("Expected NopPublisher, got %T", publisher)
	}
	if err := publisher.Publish(context.Background(), testEvent()); err != nil {
		t.Errorf("NopPublisher should never fail: %v", err)
	}
}
