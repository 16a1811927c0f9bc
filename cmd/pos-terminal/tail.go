package main

import (
	"context"
	"fmt"
	"io"
	"time"

	order "github.com/dmehra2102/pos-terminal/internal/order/domain"
	orderkafka "github.com/dmehra2102/pos-terminal/internal/order/infrastructure/kafka"
	"github.com/dmehra2102/pos-terminal/pkg/shutdown"
)

// tail follows the order events the outbox relay publishes and prints one
// line per event until interrupted.
func tail(parent context.Context, f *flags, group string, out io.Writer) error {
	cfg, log, err := loadConfig(f)
	if err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := shutdown.WithSignals(parent)
	defer cancel()

	c := orderkafka.NewConsumer(log, []string{cfg.KafkaAddr}, cfg.OutboxTopic, group,
		func(_ context.Context, eventType string, e order.JournalEntry) error {
			_, err := fmt.Fprintln(out, formatEvent(eventType, e))
			return err
		})
	log.Info("tailing order events", "topic", cfg.OutboxTopic, "group", group)
	return c.Run(ctx)
}

func formatEvent(eventType string, e order.JournalEntry) string {
	line := fmt.Sprintf("%s %-14s terminal=%s ordered_at=%d member=%d total=%d.%02d products=%v",
		e.RecordedAt.Local().Format(time.DateTime), eventType, e.TerminalID, e.OrderedAt,
		e.MemberID, e.TotalCents/100, e.TotalCents%100, e.Products)
	if e.Error != "" {
		line += " error=" + fmt.Sprintf("%q", e.Error)
	}
	return line
}
