package session

import (
	"github.com/dmehra2102/pos-terminal/internal/action"
	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
)

// Navigator dispatches a navigation action followed by the selection it
// belongs to. Views rely on that order.
type Navigator struct {
	dispatch action.Dispatcher
}

func NewNavigator(d action.Dispatcher) *Navigator {
	return &Navigator{dispatch: d}
}

func (n *Navigator) SelectRangeOfSurnames(r catalog.SurnameRange) {
	n.dispatch.Dispatch(action.Push{Path: MembersRoute(r.Index)})
	n.dispatch.Dispatch(action.SurnameRangeSelected{Range: r})
}

func (n *Navigator) SelectMember(m catalog.Member) {
	n.dispatch.Dispatch(action.Push{Path: RouteProducts})
	n.dispatch.Dispatch(action.MemberSelected{Member: m})
}

func (n *Navigator) SelectGuest() {
	n.SelectMember(catalog.Guest())
}

func (n *Navigator) SelectCommittee(c catalog.Committee) {
	n.dispatch.Dispatch(action.Push{Path: CommitteeRoute(c.ID)})
	n.dispatch.Dispatch(action.CommitteeSelected{Committee: c})
}

func (n *Navigator) Home() {
	n.dispatch.Dispatch(action.Push{Path: RouteRoot})
}

func (n *Navigator) Back() {
	n.dispatch.Dispatch(action.Back{})
}
