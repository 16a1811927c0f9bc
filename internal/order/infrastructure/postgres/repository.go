package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/pos-terminal/internal/order/domain"
	"github.com/dmehra2102/pos-terminal/pkg/outbox"
	"github.com/dmehra2102/pos-terminal/pkg/tracing"
)

const schema = `
CREATE TABLE IF NOT EXISTS order_journal (
	terminal_id TEXT NOT NULL,
	ordered_at  BIGINT NOT NULL,
	status      TEXT NOT NULL,
	member_id   BIGINT NOT NULL,
	total_cents BIGINT NOT NULL,
	products    BIGINT[] NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (terminal_id, ordered_at, status)
);
CREATE TABLE IF NOT EXISTS outbox (
	id             BIGSERIAL PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   TEXT NOT NULL,
	type           TEXT NOT NULL,
	payload        JSONB NOT NULL,
	headers        JSONB NOT NULL DEFAULT '{}',
	traceparent    TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'pending',
	relay_id       TEXT,
	lease_until    TIMESTAMPTZ,
	retry_count    INT NOT NULL DEFAULT 0,
	last_error     TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Journal records order lifecycle transitions together with an outbox event
// in one transaction.
type Journal struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewJournal(log *slog.Logger, pool *pgxpool.Pool) *Journal {
	return &Journal{log: log, pool: pool}
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

func (j *Journal) Record(ctx context.Context, e domain.JournalEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	tx, err := j.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `INSERT INTO order_journal (terminal_id, ordered_at, status, member_id, total_cents, products, error, recorded_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
				ON CONFLICT (terminal_id, ordered_at, status) DO NOTHING`,
		e.TerminalID, e.OrderedAt, string(e.Status), e.MemberID, e.TotalCents, e.Products, e.Error, e.RecordedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		j.log.Debug("journal entry already recorded", "ordered_at", e.OrderedAt, "status", e.Status)
		return tx.Commit(ctx)
	}

	headers := map[string]string{"source": "pos-terminal", "terminal_id": e.TerminalID}
	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status) VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		"order", aggregateID(e), e.EventType(), payload, headers, tracing.Traceparent(ctx))
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Recent returns the latest journal entries of a terminal, newest first.
func (j *Journal) Recent(ctx context.Context, terminalID string, limit int) ([]domain.JournalEntry, error) {
	rows, err := j.pool.Query(ctx, `SELECT terminal_id, ordered_at, status, member_id, total_cents, products, error, recorded_at
		FROM order_journal WHERE terminal_id=$1 ORDER BY recorded_at DESC, ordered_at DESC LIMIT $2`, terminalID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		var status string
		if err := rows.Scan(&e.TerminalID, &e.OrderedAt, &status, &e.MemberID, &e.TotalCents, &e.Products, &e.Error, &e.RecordedAt); err != nil {
			return nil, err
		}
		e.Status = domain.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func aggregateID(e domain.JournalEntry) string {
	return fmt.Sprintf("%s:%d", e.TerminalID, e.OrderedAt)
}

type OutboxStore struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{log: log, pool: pool}
}

// LockBatch claims pending events and in-progress events whose lease ran out.
func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_id, type, payload, headers, traceparent, retry_count, created_at
		FROM outbox
		WHERE (status = 'pending' AND retry_count < $2)
		   OR (status = 'in_progress' AND lease_until < now())
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, batchSize, outbox.MaxRetries)
	if err != nil {
		return nil, err
	}

	var events []outbox.Event
	for rows.Next() {
		var event outbox.Event
		var headers map[string]string
		if err := rows.Scan(&event.ID, &event.AggregateID, &event.Type, &event.Payload, &headers, &event.Traceparent, &event.RetryCount, &event.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		event.Headers = headers
		events = append(events, event)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	_, err = tx.Exec(ctx, `UPDATE outbox SET status='in_progress', relay_id=$1, lease_until=now() + make_interval(secs => $2) WHERE id = ANY($3)`, relayID, lease.Seconds(), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	ct, err := s.pool.Exec(ctx, `UPDATE outbox SET status='sent' WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("no rows updated")
	}
	return nil
}

// MarkFailed hands the event back to the relay until it runs out of retries.
func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox
		SET status = CASE WHEN retry_count + 1 >= $3 THEN 'failed' ELSE 'pending' END,
		    last_error=$2, retry_count=retry_count+1
		WHERE id=$1`, id, errMsg, outbox.MaxRetries)
	return err
}
