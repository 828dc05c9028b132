package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"moneybook-ledger-go/internal/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewKafkaPublisher(cfg models.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(logger.Sugar().Debugf),
		ErrorLogger:            kafka.LoggerFunc(logger.Sugar().Errorf),
	}
	logger.Info("Kafka publisher configured",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic))
	return &KafkaPublisher{writer: writer, topic: cfg.Topic, logger: logger}
}

// Publish keys each message by account id so one account's events stay in
// order on a single partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.AccountId),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to produce message to Kafka topic",
			zap.String("topic", p.topic),
			zap.String("type", string(event.Type)),
			zap.String("entry_id", event.EntryId),
			zap.Error(err))
		return fmt.Errorf("failed to produce message: %w", err)
	}

	p.logger.Debug("Produced ledger event",
		zap.String("topic", p.topic),
		zap.String("type", string(event.Type)),
		zap.String("entry_id", event.EntryId))
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka producer", zap.Error(err))
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	p.logger.Info("Kafka producer closed")
	return nil
}
