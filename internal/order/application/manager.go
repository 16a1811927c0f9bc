package application

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/pos-terminal/internal/action"
	"github.com/dmehra2102/pos-terminal/internal/order/domain"
	"github.com/dmehra2102/pos-terminal/pkg/metrics"
)

// GracePeriod is how long a queued order can be cancelled before it is
// submitted.
const GracePeriod = 7 * time.Second

var (
	ErrEmptyOrder = errors.New("order has no products")
	ErrNotQueued  = errors.New("order is not pending")
)

type pendingOrder struct {
	queued domain.QueuedOrder
	timer  Timer
}

// Manager owns the delayed-commit workflow. Every queued order gets its own
// timer keyed by the queue timestamp; whoever removes the key from pending
// first (Cancel or the timer) decides the order's fate.
type Manager struct {
	log        *slog.Logger
	dispatch   action.Dispatcher
	submitter  Submitter
	nav        Navigator
	sched      Scheduler
	now        func() time.Time
	grace      time.Duration
	terminalID string
	journal    Journal
	guard      Guard
	metrics    *metrics.Metrics
	tracer     trace.Tracer

	mu       sync.Mutex
	pending  map[int64]*pendingOrder
	inflight sync.WaitGroup
}

type Option func(*Manager)

func WithGracePeriod(d time.Duration) Option { return func(m *Manager) { m.grace = d } }

func WithScheduler(s Scheduler) Option { return func(m *Manager) { m.sched = s } }

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

func WithTerminalID(id string) Option { return func(m *Manager) { m.terminalID = id } }

func WithJournal(j Journal) Option { return func(m *Manager) { m.journal = j } }

func WithGuard(g Guard) Option { return func(m *Manager) { m.guard = g } }

func WithMetrics(mt *metrics.Metrics) Option { return func(m *Manager) { m.metrics = mt } }

func NewManager(log *slog.Logger, dispatch action.Dispatcher, submitter Submitter, nav Navigator, opts ...Option) *Manager {
	m := &Manager{
		log:       log,
		dispatch:  dispatch,
		submitter: submitter,
		nav:       nav,
		sched:     realScheduler{},
		now:       time.Now,
		grace:     GracePeriod,
		tracer:    otel.Tracer("order-queue"),
		pending:   make(map[int64]*pendingOrder),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Queue stores a copy of o, navigates home and schedules the submission
// after the grace period.
func (m *Manager) Queue(ctx context.Context, o domain.Order) (domain.QueuedOrder, error) {
	if len(o.Products) == 0 {
		return domain.QueuedOrder{}, ErrEmptyOrder
	}

	m.mu.Lock()
	at := m.now().UnixMilli()
	for m.pending[at] != nil {
		at++
	}
	q := domain.QueuedOrder{Order: o.Clone(), OrderedAt: at}
	p := &pendingOrder{queued: q}
	m.pending[at] = p
	n := len(m.pending)
	m.mu.Unlock()

	m.dispatch.Dispatch(action.OrderQueued{Order: q.Order, OrderedAt: at})
	m.nav.Home()

	// The timer starts only after QUEUE_ORDER is out, so a BUY_ORDER_REQUEST
	// can never precede it.
	m.mu.Lock()
	if m.pending[at] == p {
		p.timer = m.sched.AfterFunc(m.grace, func() { m.commit(at) })
	}
	m.mu.Unlock()

	m.metrics.Order(metrics.OrderQueued)
	m.metrics.SetPending(n)
	m.log.Info("order queued", "ordered_at", at, "member_id", q.Order.Member.ID, "products", len(q.Order.Products))
	m.record(ctx, q, domain.StatusQueued, "")
	return q, nil
}

// Cancel withdraws a pending order and re-selects its member. Once the grace
// period has elapsed the submission is already under way and Cancel returns
// ErrNotQueued without effect.
func (m *Manager) Cancel(ctx context.Context, orderedAt int64) error {
	m.mu.Lock()
	p, ok := m.pending[orderedAt]
	if ok {
		delete(m.pending, orderedAt)
		if p.timer != nil {
			p.timer.Stop()
		}
	}
	n := len(m.pending)
	m.mu.Unlock()

	if !ok {
		m.log.Warn("cancel ignored, order not pending", "ordered_at", orderedAt)
		return ErrNotQueued
	}

	m.dispatch.Dispatch(action.OrderCancelled{Order: p.queued.Order, OrderedAt: orderedAt})
	m.nav.SelectMember(p.queued.Order.Member)

	m.metrics.Order(metrics.OrderCancelled)
	m.metrics.SetPending(n)
	m.log.Info("order cancelled", "ordered_at", orderedAt)
	m.record(ctx, p.queued, domain.StatusCancelled, "")
	return nil
}

// Pending returns the orders still inside their grace period, oldest first.
func (m *Manager) Pending() []domain.QueuedOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.QueuedOrder, 0, len(m.pending))
	for _, p := range m.pending {
		out = append(out, p.queued)
	}
	slices.SortFunc(out, func(a, b domain.QueuedOrder) int {
		return cmp.Compare(a.OrderedAt, b.OrderedAt)
	})
	return out
}

// Close submits every order still in its grace period and waits for all
// submissions to finish or ctx to expire.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	keys := make([]int64, 0, len(m.pending))
	for at, p := range m.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		keys = append(keys, at)
	}
	m.mu.Unlock()

	for _, at := range keys {
		m.commit(at)
	}

	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) commit(at int64) {
	m.mu.Lock()
	p, ok := m.pending[at]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.pending, at)
	n := len(m.pending)
	m.inflight.Add(1)
	m.mu.Unlock()
	defer m.inflight.Done()

	m.metrics.SetPending(n)
	q := p.queued
	ctx, span := m.tracer.Start(context.Background(), "SubmitOrder")
	defer span.End()

	m.dispatch.Dispatch(action.BuyOrder{Kind: action.BuyOrderRequest, Member: q.Order.Member, Order: q.Order, OrderedAt: at})

	if m.guard != nil {
		seen, err := m.guard.Seen(ctx, m.terminalID, at)
		if err != nil {
			m.log.Warn("submission guard unavailable", "ordered_at", at, "err", err)
		} else if seen {
			m.log.Warn("duplicate submission skipped", "ordered_at", at)
			m.metrics.Order(metrics.OrderDuplicate)
			m.dispatch.Dispatch(action.BuyOrder{Kind: action.BuyOrderSuccess, Member: q.Order.Member, Order: q.Order, OrderedAt: at})
			return
		}
	}

	if err := m.submitter.SubmitOrder(ctx, domain.NewSubmission(q.Order)); err != nil {
		span.RecordError(err)
		m.log.Error("order submission failed", "ordered_at", at, "err", err)
		m.metrics.Order(metrics.OrderFailed)
		m.dispatch.Dispatch(action.BuyOrder{Kind: action.BuyOrderFailure, Member: q.Order.Member, Order: q.Order, OrderedAt: at})
		m.record(ctx, q, domain.StatusFailed, err.Error())
		return
	}

	m.log.Info("order submitted", "ordered_at", at)
	m.metrics.Order(metrics.OrderSubmitted)
	m.dispatch.Dispatch(action.BuyOrder{Kind: action.BuyOrderSuccess, Member: q.Order.Member, Order: q.Order, OrderedAt: at})
	m.record(ctx, q, domain.StatusSubmitted, "")
}

func (m *Manager) record(ctx context.Context, q domain.QueuedOrder, status domain.Status, errMsg string) {
	if m.journal == nil {
		return
	}
	e := domain.NewJournalEntry(m.terminalID, q, status, m.now())
	e.Error = errMsg
	if err := m.journal.Record(ctx, e); err != nil {
		m.log.Error("journal record failed", "ordered_at", q.OrderedAt, "status", status, "err", err)
	}
}
