package application

import (
	"context"
	"time"

	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	"github.com/dmehra2102/pos-terminal/internal/order/domain"
)

type Submitter interface {
	SubmitOrder(ctx context.Context, sub domain.Submission) error
}

// Navigator performs the navigation side effects of the order lifecycle.
type Navigator interface {
	SelectMember(m catalog.Member)
	Home()
}

type Journal interface {
	Record(ctx context.Context, e domain.JournalEntry) error
}

// Guard reports whether a queue key was already submitted by this terminal.
type Guard interface {
	Seen(ctx context.Context, terminalID string, orderedAt int64) (bool, error)
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}
