package domain

import "time"

// JournalEntry records one lifecycle transition of a queued order.
type JournalEntry struct {
	TerminalID string    `json:"terminal_id"`
	OrderedAt  int64     `json:"ordered_at"`
	Status     Status    `json:"status"`
	MemberID   int64     `json:"member_id"`
	TotalCents int64     `json:"total_cents"`
	Products   []int64   `json:"products"`
	Error      string    `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func NewJournalEntry(terminalID string, q QueuedOrder, status Status, at time.Time) JournalEntry {
	ids := make([]int64, 0, len(q.Order.Products))
	for _, p := range q.Order.Products {
		ids = append(ids, p.ID)
	}
	return JournalEntry{
		TerminalID: terminalID,
		OrderedAt:  q.OrderedAt,
		Status:     status,
		MemberID:   q.Order.Member.ID,
		TotalCents: q.Order.TotalCents(),
		Products:   ids,
		RecordedAt: at.UTC(),
	}
}

// EventType is the outbox event name for a journal status.
func (e JournalEntry) EventType() string {
	switch e.Status {
	case StatusQueued:
		return "OrderQueued"
	case StatusCancelled:
		return "OrderCancelled"
	case StatusSubmitted:
		return "OrderSubmitted"
	default:
		return "OrderFailed"
	}
}
