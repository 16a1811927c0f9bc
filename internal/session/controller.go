package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmehra2102/pos-terminal/internal/action"
	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	order "github.com/dmehra2102/pos-terminal/internal/order/domain"
)

var ErrNoMember = errors.New("no member selected")

type OrderQueue interface {
	Queue(ctx context.Context, o order.Order) (order.QueuedOrder, error)
	Cancel(ctx context.Context, orderedAt int64) error
}

// Controller implements the user actions that depend on the current state.
type Controller struct {
	log   *slog.Logger
	store *Store
	nav   *Navigator
	queue OrderQueue
}

func NewController(log *slog.Logger, store *Store, nav *Navigator, queue OrderQueue) *Controller {
	return &Controller{log: log, store: store, nav: nav, queue: queue}
}

// GoBack edits the queued order when there is one; otherwise it navigates
// back and clears the selection.
func (c *Controller) GoBack() {
	if q := c.store.Snapshot().QueuedOrder; q != nil {
		c.nav.SelectMember(q.Order.Member)
		return
	}
	c.nav.Back()
	c.store.Dispatch(action.Plain{Kind: action.GoBack})
}

func (c *Controller) BuyMore() {
	c.store.Dispatch(action.Plain{Kind: action.BuyMore})
}

// AddProductToOrder buys p straight away, unless buy-more mode is on, in
// which case p is added to the order being assembled. Age restrictions are
// shown by the kiosk and never block the sale here.
func (c *Controller) AddProductToOrder(ctx context.Context, p catalog.Product) error {
	st := c.store.Snapshot()
	if st.SelectedMember == nil {
		return ErrNoMember
	}
	m := *st.SelectedMember
	if !p.AllowedFor(m) {
		c.log.Info("age restricted product sold", "member_id", m.ID, "product_id", p.ID, "age", m.Age)
	}
	if !st.BuyMore {
		_, err := c.queue.Queue(ctx, order.NewOrder(m, p))
		return err
	}
	c.store.Dispatch(action.ProductAdded{Member: m, Product: p})
	return nil
}

// BuyAll queues the order assembled in buy-more mode.
func (c *Controller) BuyAll(ctx context.Context) (order.QueuedOrder, error) {
	st := c.store.Snapshot()
	if st.SelectedMember == nil {
		return order.QueuedOrder{}, ErrNoMember
	}
	return c.queue.Queue(ctx, st.Order)
}

func (c *Controller) CancelOrder(ctx context.Context, q order.QueuedOrder) error {
	return c.queue.Cancel(ctx, q.OrderedAt)
}
