package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmehra2102/pos-terminal/pkg/metrics"
)

type Store interface {
	LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error)
	MarkSent(ctx context.Context, ids []int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}

// Relay moves journal events from the outbox table to Kafka. Several relays
// may share a table; leases keep them off each other's rows.
type Relay struct {
	log       *slog.Logger
	store     Store
	publisher *Publisher
	metrics   *metrics.Metrics
	relayID   string
	batchSize int
	interval  time.Duration
	lease     time.Duration
}

type RelayOption func(*Relay)

func WithBatchSize(n int) RelayOption { return func(r *Relay) { r.batchSize = n } }

func WithInterval(d time.Duration) RelayOption { return func(r *Relay) { r.interval = d } }

func WithLease(d time.Duration) RelayOption { return func(r *Relay) { r.lease = d } }

func WithMetrics(m *metrics.Metrics) RelayOption { return func(r *Relay) { r.metrics = m } }

func NewRelay(log *slog.Logger, store Store, publisher *Publisher, relayID string, opts ...RelayOption) *Relay {
	r := &Relay{
		log:       log.With("relay_id", relayID),
		store:     store,
		publisher: publisher,
		relayID:   relayID,
		batchSize: 100,
		interval:  500 * time.Millisecond,
		lease:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("relay stopping")
			return nil
		case <-t.C:
			// Drain a backlog without waiting a tick per batch.
			for {
				n, err := r.Once(ctx)
				if err != nil {
					r.log.Error("relay batch failed", "err", err)
					break
				}
				if n < r.batchSize {
					break
				}
			}
		}
	}
}

// Once relays a single batch and returns how many events were claimed.
func (r *Relay) Once(ctx context.Context) (int, error) {
	events, err := r.store.LockBatch(ctx, r.relayID, r.batchSize, r.lease)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	sent, failed := r.publisher.Publish(ctx, events)
	for id, perr := range failed {
		if err := r.store.MarkFailed(ctx, id, perr.Error()); err != nil {
			r.log.Error("relay mark failed error", "event_id", id, "err", err)
		}
	}
	r.metrics.Outbox(metrics.OutcomeFailure, len(failed))
	if len(sent) == 0 {
		return len(events), nil
	}
	if err := r.store.MarkSent(ctx, sent); err != nil {
		// The lease runs out and the events go out again; consumers see
		// them twice.
		return 0, err
	}
	r.metrics.Outbox(metrics.OutcomeSuccess, len(sent))
	r.log.Debug("relay batch sent", "sent", len(sent), "failed", len(failed))
	return len(events), nil
}
