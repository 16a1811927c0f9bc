package outbox

import "time"

// Status values of the outbox table's status column.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusSent       = "sent"
	StatusFailed     = "failed"
)

// MaxRetries bounds how often a failed event is handed back to the relay.
const MaxRetries = 5

// Event is one outbox row claimed by a relay.
type Event struct {
	ID          int64
	AggregateID string
	Type        string
	Payload     []byte
	Headers     map[string]string
	Traceparent string
	RetryCount  int
	CreatedAt   time.Time
}
