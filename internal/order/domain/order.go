package domain

import (
	"slices"
	"time"

	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusCancelled Status = "cancelled"
	StatusSubmitted Status = "submitted"
	StatusFailed    Status = "failed"
)

// Order is assembled while a member is selected. It is copied when queued
// and never mutated afterwards.
type Order struct {
	Member   catalog.Member    `json:"member"`
	Products []catalog.Product `json:"products"`
}

func NewOrder(member catalog.Member, products ...catalog.Product) Order {
	return Order{Member: member, Products: products}
}

func (o Order) Clone() Order {
	return Order{Member: o.Member, Products: slices.Clone(o.Products)}
}

func (o Order) TotalCents() int64 {
	var total int64
	for _, p := range o.Products {
		total += p.Price
	}
	return total
}

// QueuedOrder is an order waiting out its grace period. OrderedAt is the
// epoch-millisecond queue key.
type QueuedOrder struct {
	Order     Order `json:"order"`
	OrderedAt int64 `json:"ordered_at"`
}

func (q QueuedOrder) Time() time.Time { return time.UnixMilli(q.OrderedAt) }
