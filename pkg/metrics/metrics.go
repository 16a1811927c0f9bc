package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	OrderQueued    = "queued"
	OrderCancelled = "cancelled"
	OrderSubmitted = "submitted"
	OrderFailed    = "failed"
	OrderDuplicate = "duplicate"
)

type Metrics struct {
	Fetches *prometheus.CounterVec
	Orders  *prometheus.CounterVec
	Pending prometheus.Gauge
	Relayed *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "fetch_total",
			Help:      "Backend resource fetches by resource and outcome.",
		}, []string{"resource", "outcome"}),
		Orders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "orders_total",
			Help:      "Order lifecycle transitions by outcome.",
		}, []string{"outcome"}),
		Pending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "pos",
			Name:      "pending_orders",
			Help:      "Orders waiting out their grace period.",
		}),
		Relayed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "outbox_events_total",
			Help:      "Journal events relayed to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Fetch(resource string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.Fetches.WithLabelValues(resource, outcome).Inc()
}

func (m *Metrics) Order(outcome string) {
	if m == nil {
		return
	}
	m.Orders.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.Pending.Set(float64(n))
}

func (m *Metrics) Outbox(outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.Relayed.WithLabelValues(outcome).Add(float64(n))
}
