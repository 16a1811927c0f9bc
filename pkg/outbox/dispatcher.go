package outbox

import (
	"context"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/dmehra2102/pos-terminal/pkg/tracing"
)

const EventTypeHeader = "event_type"

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher writes claimed events to a single topic, keyed by aggregate so
// the events of one order stay in order on one partition.
type Publisher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewPublisher(log *slog.Logger, producer Producer, topic string) *Publisher {
	return &Publisher{log: log, producer: producer, topic: topic}
}

// Publish writes events as one batch and returns the ids that were written
// and the error of each one that wasn't.
func (p *Publisher) Publish(ctx context.Context, events []Event) ([]int64, map[int64]error) {
	if len(events) == 0 {
		return nil, nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, p.message(ctx, e))
	}

	err := p.producer.WriteMessages(ctx, msgs...)
	if err == nil {
		ids := make([]int64, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		return ids, nil
	}

	failed := make(map[int64]error)
	var perMessage kafka.WriteErrors
	if !errors.As(err, &perMessage) || len(perMessage) != len(events) {
		for _, e := range events {
			failed[e.ID] = err
		}
		p.log.Error("outbox batch failed", "events", len(events), "err", err)
		return nil, failed
	}

	var ids []int64
	for i, e := range events {
		if perMessage[i] != nil {
			failed[e.ID] = perMessage[i]
			continue
		}
		ids = append(ids, e.ID)
	}
	p.log.Warn("outbox batch partially failed", "sent", len(ids), "failed", len(failed))
	return ids, failed
}

func (p *Publisher) message(ctx context.Context, e Event) kafka.Message {
	headers := make([]kafka.Header, 0, len(e.Headers)+2)
	for k, v := range e.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	headers = append(headers, kafka.Header{Key: EventTypeHeader, Value: []byte(e.Type)})
	// Events carry the trace of the order action that produced them; the
	// relay's own span is only a fallback.
	if e.Traceparent != "" {
		headers = append(headers, kafka.Header{Key: tracing.TraceparentHeader, Value: []byte(e.Traceparent)})
	} else {
		headers = tracing.InjectKafkaHeaders(ctx, headers)
	}
	return kafka.Message{
		Topic:   p.topic,
		Key:     []byte(e.AggregateID),
		Value:   e.Payload,
		Headers: headers,
	}
}
