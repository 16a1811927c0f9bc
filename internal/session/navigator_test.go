package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmehra2102/pos-terminal/internal/action"
	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
)

func TestNavigator(t *testing.T) {
	snow := catalog.Member{ID: 1, FirstName: "John", Surname: "Snow", Age: 18}
	r := catalog.SurnameRange{Index: 2, Start: "A", End: "B"}
	c := catalog.Committee{ID: 7, Name: "Compucie"}

	tests := []struct {
		name string
		run  func(n *Navigator)
		want []action.Action
	}{
		{
			name: "select range of surnames",
			run:  func(n *Navigator) { n.SelectRangeOfSurnames(r) },
			want: []action.Action{action.Push{Path: "/members/2"}, action.SurnameRangeSelected{Range: r}},
		},
		{
			name: "select member",
			run:  func(n *Navigator) { n.SelectMember(snow) },
			want: []action.Action{action.Push{Path: "/products"}, action.MemberSelected{Member: snow}},
		},
		{
			name: "select guest",
			run:  func(n *Navigator) { n.SelectGuest() },
			want: []action.Action{action.Push{Path: "/products"}, action.MemberSelected{Member: catalog.Member{}}},
		},
		{
			name: "select committee",
			run:  func(n *Navigator) { n.SelectCommittee(c) },
			want: []action.Action{action.Push{Path: "/committees/7"}, action.CommitteeSelected{Committee: c}},
		},
		{
			name: "home",
			run:  func(n *Navigator) { n.Home() },
			want: []action.Action{action.Push{Path: "/"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec action.Recorder
			tt.run(NewNavigator(&rec))
			assert.Equal(t, tt.want, rec.Actions())
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/products", "/products"},
		{"/members/3", "/members/3"},
		{"/members", "/"},
		{"/members/abc", "/"},
		{"/committees", "/committees"},
		{"/committees/12", "/committees/12"},
		{"/compucie", "/compucie"},
		{"/nowhere", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path))
		})
	}
}
