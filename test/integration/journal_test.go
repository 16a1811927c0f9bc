//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/suite"

	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	"github.com/dmehra2102/pos-terminal/internal/order/domain"
	orderkafka "github.com/dmehra2102/pos-terminal/internal/order/infrastructure/kafka"
	orderpg "github.com/dmehra2102/pos-terminal/internal/order/infrastructure/postgres"
	"github.com/dmehra2102/pos-terminal/pkg/outbox"
)

const topic = "pos.order.events.test"

type JournalTestSuite struct {
	suite.Suite
	ctx  context.Context
	env  *Env
	pool *pgxpool.Pool
	log  *slog.Logger
}

func TestJournalTestSuite(t *testing.T) {
	suite.Run(t, new(JournalTestSuite))
}

func (s *JournalTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.log = slog.New(slog.NewTextHandler(io.Discard, nil))

	env, err := Setup(s.ctx)
	s.Require().NoError(err)
	s.env = env

	s.pool, err = pgxpool.New(s.ctx, env.PGURL)
	s.Require().NoError(err)
	s.Require().NoError(orderpg.Migrate(s.ctx, s.pool))
	// Migrate is idempotent.
	s.Require().NoError(orderpg.Migrate(s.ctx, s.pool))
}

func (s *JournalTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.env != nil {
		s.env.Teardown(context.Background())
	}
}

func (s *JournalTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE order_journal, outbox`)
	s.Require().NoError(err)
}

func queued(at int64) domain.QueuedOrder {
	o := domain.NewOrder(catalog.Member{ID: 314, FirstName: "John", Surname: "Snow"},
		catalog.Product{ID: 1, Name: "Grolsch", Price: 65},
		catalog.Product{ID: 3, Name: "Cola", Price: 50})
	return domain.QueuedOrder{Order: o, OrderedAt: at}
}

func (s *JournalTestSuite) TestRecordIsIdempotentAndListsNewestFirst() {
	j := orderpg.NewJournal(s.log, s.pool)
	now := time.Now()

	q := queued(1_700_000_000_000)
	s.Require().NoError(j.Record(s.ctx, domain.NewJournalEntry("t1", q, domain.StatusQueued, now)))
	s.Require().NoError(j.Record(s.ctx, domain.NewJournalEntry("t1", q, domain.StatusQueued, now)))
	s.Require().NoError(j.Record(s.ctx, domain.NewJournalEntry("t1", q, domain.StatusSubmitted, now.Add(time.Second))))
	s.Require().NoError(j.Record(s.ctx, domain.NewJournalEntry("t2", q, domain.StatusQueued, now)))

	entries, err := j.Recent(s.ctx, "t1", 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(domain.StatusSubmitted, entries[0].Status)
	s.Equal(domain.StatusQueued, entries[1].Status)
	s.Equal(int64(115), entries[0].TotalCents)
	s.Equal([]int64{1, 3}, entries[0].Products)

	var n int
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT count(*) FROM outbox`).Scan(&n))
	s.Equal(3, n)
}

func (s *JournalTestSuite) TestOutboxLeaseAndRetry() {
	j := orderpg.NewJournal(s.log, s.pool)
	store := orderpg.NewOutboxStore(s.log, s.pool)
	s.Require().NoError(j.Record(s.ctx, domain.NewJournalEntry("t1", queued(1), domain.StatusQueued, time.Now())))

	batch, err := store.LockBatch(s.ctx, "relay-a", 10, time.Minute)
	s.Require().NoError(err)
	s.Require().Len(batch, 1)
	s.Equal("OrderQueued", batch[0].Type)
	s.Equal("t1:1", batch[0].AggregateID)

	// Leased rows are invisible to other relays.
	other, err := store.LockBatch(s.ctx, "relay-b", 10, time.Minute)
	s.Require().NoError(err)
	s.Empty(other)

	s.Require().NoError(store.MarkFailed(s.ctx, batch[0].ID, "broker down"))
	retry, err := store.LockBatch(s.ctx, "relay-b", 10, time.Minute)
	s.Require().NoError(err)
	s.Require().Len(retry, 1)
	s.Equal(1, retry[0].RetryCount)

	s.Require().NoError(store.MarkSent(s.ctx, []int64{retry[0].ID}))
	none, err := store.LockBatch(s.ctx, "relay-a", 10, time.Minute)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *JournalTestSuite) TestRelayPublishesToKafka() {
	j := orderpg.NewJournal(s.log, s.pool)
	s.Require().NoError(j.Record(s.ctx, domain.NewJournalEntry("t1", queued(42), domain.StatusCancelled, time.Now())))

	writer := orderkafka.NewWriter(s.log, s.env.KAddr)
	defer writer.Close()
	relay := outbox.NewRelay(s.log, orderpg.NewOutboxStore(s.log, s.pool), outbox.NewPublisher(s.log, writer, topic), "relay-it")

	// The first write may race topic auto-creation.
	s.Eventually(func() bool {
		if _, err := relay.Once(s.ctx); err != nil {
			return false
		}
		var sent int
		err := s.pool.QueryRow(s.ctx, `SELECT count(*) FROM outbox WHERE status = $1`, outbox.StatusSent).Scan(&sent)
		return err == nil && sent == 1
	}, 30*time.Second, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{Brokers: s.env.KAddr, Topic: topic, Partition: 0})
	defer reader.Close()
	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()
	msg, err := reader.ReadMessage(ctx)
	s.Require().NoError(err)

	s.Equal("t1:42", string(msg.Key))
	var e domain.JournalEntry
	s.Require().NoError(json.Unmarshal(msg.Value, &e))
	s.Equal(domain.StatusCancelled, e.Status)
	s.Equal(int64(314), e.MemberID)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	s.Equal("OrderCancelled", headers[outbox.EventTypeHeader])
	s.Equal("t1", headers["terminal_id"])
}
