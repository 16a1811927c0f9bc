package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/pos-terminal/internal/order/domain"
	"github.com/dmehra2102/pos-terminal/pkg/outbox"
	"github.com/dmehra2102/pos-terminal/pkg/tracing"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventHandler receives every journal event read from the topic.
type EventHandler func(ctx context.Context, eventType string, e domain.JournalEntry) error

// Consumer reads order journal events published by the outbox relay.
type Consumer struct {
	log    *slog.Logger
	reader MessageReader
	handle EventHandler
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, handle EventHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return newConsumer(log, r, handle)
}

func newConsumer(log *slog.Logger, r MessageReader, handle EventHandler) *Consumer {
	return &Consumer{
		log:    log,
		reader: r,
		handle: handle,
		tracer: otel.Tracer("order-event-consumer"),
	}
}

// Run consumes until ctx is done. Malformed messages are committed and
// skipped so they can't block the partition.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumeOrderEvent")

		var entry domain.JournalEntry
		if err := json.Unmarshal(msg.Value, &entry); err != nil {
			c.log.Error("unmarshal failed", "offset", msg.Offset, "err", err)
			span.End()
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		eventType := tracing.HeaderCarrier{Headers: &msg.Headers}.Get(outbox.EventTypeHeader)
		if eventType == "" {
			eventType = entry.EventType()
		}
		if err := c.handle(msgCtx, eventType, entry); err != nil {
			c.log.Error("order event handling failed", "key", string(msg.Key), "err", err)
		}
		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}
