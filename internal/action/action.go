// Package action defines the notifications every state change flows through.
// Navigation is an action too, so its ordering relative to state changes is
// observable.
package action

import (
	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	order "github.com/dmehra2102/pos-terminal/internal/order/domain"
)

type Type string

const (
	GoBack            Type = "GO_BACK"
	BuyMore           Type = "TOGGLE_BUY_MORE_PRODUCTS"
	AddProductToOrder Type = "ADD_PRODUCT_TO_ORDER"

	QueueOrder  Type = "QUEUE_ORDER"
	CancelOrder Type = "CANCEL_ORDER"

	BuyOrderRequest Type = "BUY_ORDER_REQUEST"
	BuyOrderSuccess Type = "BUY_ORDER_SUCCESS"
	BuyOrderFailure Type = "BUY_ORDER_FAILURE"

	SelectSurnameRange Type = "SELECT_SURNAME_RANGE"
	SelectMember       Type = "SELECT_MEMBER"
	SelectCommittee    Type = "SELECT_COMMITTEE"

	FetchMembersRequest Type = "FETCH_MEMBERS_REQUEST"
	FetchMembersSuccess Type = "FETCH_MEMBERS_SUCCESS"
	FetchMembersFailure Type = "FETCH_MEMBERS_FAILURE"

	FetchBoardMembersRequest Type = "FETCH_BOARD_MEMBERS_REQUEST"
	FetchBoardMembersSuccess Type = "FETCH_BOARD_MEMBERS_SUCCESS"
	FetchBoardMembersFailure Type = "FETCH_BOARD_MEMBERS_FAILURE"

	FetchCommitteeMembersRequest Type = "FETCH_COMMITTEE_MEMBERS_REQUEST"
	FetchCommitteeMembersSuccess Type = "FETCH_COMMITTEE_MEMBERS_SUCCESS"
	FetchCommitteeMembersFailure Type = "FETCH_COMMITTEE_MEMBERS_FAILURE"

	FetchProductsRequest Type = "FETCH_PRODUCTS_REQUEST"
	FetchProductsSuccess Type = "FETCH_PRODUCTS_SUCCESS"
	FetchProductsFailure Type = "FETCH_PRODUCTS_FAILURE"

	NavigatePush Type = "NAVIGATE_PUSH"
	NavigateBack Type = "NAVIGATE_BACK"
)

type Action interface {
	Type() Type
}

// Plain is an action without payload: REQUEST and FAILURE notifications,
// GO_BACK and TOGGLE_BUY_MORE_PRODUCTS.
type Plain struct {
	Kind Type
}

func (a Plain) Type() Type { return a.Kind }

type Push struct {
	Path string
}

func (Push) Type() Type { return NavigatePush }

type Back struct{}

func (Back) Type() Type { return NavigateBack }

type SurnameRangeSelected struct {
	Range catalog.SurnameRange
}

func (SurnameRangeSelected) Type() Type { return SelectSurnameRange }

type MemberSelected struct {
	Member catalog.Member
}

func (MemberSelected) Type() Type { return SelectMember }

type CommitteeSelected struct {
	Committee catalog.Committee
}

func (CommitteeSelected) Type() Type { return SelectCommittee }

type ProductAdded struct {
	Member  catalog.Member
	Product catalog.Product
}

func (ProductAdded) Type() Type { return AddProductToOrder }

type OrderQueued struct {
	Order     order.Order
	OrderedAt int64
}

func (OrderQueued) Type() Type { return QueueOrder }

type OrderCancelled struct {
	Order     order.Order
	OrderedAt int64
}

func (OrderCancelled) Type() Type { return CancelOrder }

// BuyOrder carries BUY_ORDER_REQUEST, BUY_ORDER_SUCCESS and BUY_ORDER_FAILURE.
type BuyOrder struct {
	Kind      Type
	Member    catalog.Member
	Order     order.Order
	OrderedAt int64
}

func (a BuyOrder) Type() Type { return a.Kind }

type MembersFetched struct {
	Members []catalog.Member
}

func (MembersFetched) Type() Type { return FetchMembersSuccess }

type ProductsFetched struct {
	Products []catalog.Product
}

func (ProductsFetched) Type() Type { return FetchProductsSuccess }

type BoardMembersFetched struct {
	BoardMembers []catalog.BoardMember
}

func (BoardMembersFetched) Type() Type { return FetchBoardMembersSuccess }

type CommitteeMembersFetched struct {
	Committees []catalog.CommitteeMembership
}

func (CommitteeMembersFetched) Type() Type { return FetchCommitteeMembersSuccess }
