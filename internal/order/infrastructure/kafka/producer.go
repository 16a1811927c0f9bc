package kafka

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// NewWriter returns the writer the outbox relay publishes through. The relay
// keys messages by terminal and queue key and the hash balancer keeps each
// order's events on one partition. Client errors go to log.
func NewWriter(log *slog.Logger, brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("kafka writer: " + fmt.Sprintf(msg, args...))
		}),
	}
}
