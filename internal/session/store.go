package session

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/dmehra2102/pos-terminal/internal/action"
	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	order "github.com/dmehra2102/pos-terminal/internal/order/domain"
)

const maxRecentBuyers = 20

type State struct {
	Members      []catalog.Member              `json:"members"`
	Products     []catalog.Product             `json:"products"`
	BoardMembers []catalog.BoardMember         `json:"boardMembers"`
	Committees   []catalog.CommitteeMembership `json:"committees"`

	SurnameRange      *catalog.SurnameRange `json:"surnameRange"`
	SelectedMember    *catalog.Member       `json:"selectedMember"`
	SelectedCommittee *catalog.Committee    `json:"selectedCommittee"`

	Order       order.Order        `json:"order"`
	BuyMore     bool               `json:"buyMore"`
	QueuedOrder *order.QueuedOrder `json:"queuedOrder"`

	Location string   `json:"location"`
	History  []string `json:"history"`

	RecentBuyers []catalog.Member   `json:"recentBuyers"`
	FailedOrder  *order.QueuedOrder `json:"failedOrder"`
}

// Store applies actions to the terminal state and forwards them to its
// subscribers. Dispatch is safe for concurrent use.
type Store struct {
	log *slog.Logger

	mu    sync.RWMutex
	state State
	subs  []action.Dispatcher
}

func NewStore(log *slog.Logger) *Store {
	return &Store{log: log, state: State{Location: RouteRoot}}
}

func (s *Store) Subscribe(d action.Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, d)
}

func (s *Store) Dispatch(a action.Action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.log.Debug("dispatch", "type", a.Type())
	for _, sub := range subs {
		sub.Dispatch(a)
	}
}

// Snapshot returns a copy of the state that shares nothing mutable with the store.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Members = slices.Clone(st.Members)
	st.Products = slices.Clone(st.Products)
	st.BoardMembers = slices.Clone(st.BoardMembers)
	st.Committees = slices.Clone(st.Committees)
	st.Order = st.Order.Clone()
	st.History = slices.Clone(st.History)
	st.RecentBuyers = slices.Clone(st.RecentBuyers)
	if st.QueuedOrder != nil {
		q := *st.QueuedOrder
		q.Order = q.Order.Clone()
		st.QueuedOrder = &q
	}
	return st
}

func reduce(st State, a action.Action) State {
	switch a := a.(type) {
	case action.MembersFetched:
		st.Members = a.Members
	case action.ProductsFetched:
		st.Products = a.Products
	case action.BoardMembersFetched:
		st.BoardMembers = a.BoardMembers
	case action.CommitteeMembersFetched:
		st.Committees = a.Committees

	case action.Push:
		st.History = append(slices.Clone(st.History), st.Location)
		st.Location = Resolve(a.Path)
	case action.Back:
		if n := len(st.History); n > 0 {
			st.Location = st.History[n-1]
			st.History = slices.Clone(st.History[:n-1])
		} else {
			st.Location = RouteRoot
		}

	case action.SurnameRangeSelected:
		r := a.Range
		st.SurnameRange = &r
	case action.MemberSelected:
		m := a.Member
		st.SelectedMember = &m
		st.Order = order.NewOrder(m)
		st.BuyMore = false
	case action.CommitteeSelected:
		c := a.Committee
		st.SelectedCommittee = &c

	case action.ProductAdded:
		st.Order = st.Order.Clone()
		st.Order.Member = a.Member
		st.Order.Products = append(st.Order.Products, a.Product)

	case action.OrderQueued:
		st.QueuedOrder = &order.QueuedOrder{Order: a.Order, OrderedAt: a.OrderedAt}
		st.SelectedMember = nil
		st.Order = order.Order{}
		st.BuyMore = false
	case action.OrderCancelled:
		st = clearQueued(st, a.OrderedAt)
	case action.BuyOrder:
		switch a.Kind {
		case action.BuyOrderRequest:
			st = clearQueued(st, a.OrderedAt)
		case action.BuyOrderSuccess:
			st.RecentBuyers = pushRecent(st.RecentBuyers, a.Member)
		case action.BuyOrderFailure:
			st.FailedOrder = &order.QueuedOrder{Order: a.Order, OrderedAt: a.OrderedAt}
		}

	case action.Plain:
		switch a.Kind {
		case action.BuyMore:
			st.BuyMore = !st.BuyMore
		case action.GoBack:
			st.SelectedMember = nil
			st.SelectedCommittee = nil
			st.Order = order.Order{}
			st.BuyMore = false
		}
	}
	return st
}

func clearQueued(st State, orderedAt int64) State {
	if st.QueuedOrder != nil && st.QueuedOrder.OrderedAt == orderedAt {
		st.QueuedOrder = nil
	}
	return st
}

func pushRecent(recent []catalog.Member, m catalog.Member) []catalog.Member {
	if m.IsGuest() {
		return recent
	}
	out := make([]catalog.Member, 0, len(recent)+1)
	out = append(out, m)
	for _, r := range recent {
		if r.ID != m.ID {
			out = append(out, r)
		}
	}
	if len(out) > maxRecentBuyers {
		out = out[:maxRecentBuyers]
	}
	return out
}
