package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProminent(t *testing.T) {
	members := []Member{
		{ID: 1, Surname: "A", Prominent: ptr(10)},
		{ID: 2, Surname: "B", Prominent: ptr(30)},
		{ID: 3, Surname: "C"},
		{ID: 4, Surname: "D", Prominent: ptr(20)},
	}
	var board []BoardMember
	for year := 2000; year <= 2007; year++ {
		board = append(board, BoardMember{MemberID: 3, Year: year, Function: "Lid"})
	}
	board = append(board, BoardMember{MemberID: 4, Year: 2007, Function: "Voorzitter"})
	board = append(board, BoardMember{MemberID: 1, Year: 2000, Function: "Voorzitter"})

	view := BuildProminent(board, members)

	require.Len(t, view.Boards, ShownBoards)
	assert.Equal(t, 2007, view.Boards[0].Year)
	assert.Equal(t, 2002, view.Boards[ShownBoards-1].Year)
	require.Len(t, view.Boards[0].Seats, 2)
	require.NotNil(t, view.Boards[0].Seats[1].Member)
	assert.Equal(t, "D", view.Boards[0].Seats[1].Member.Surname)

	// member 4 sits on a shown board, member 1 only on a board that fell off
	ids := make([]int64, 0, len(view.Prominent))
	for _, m := range view.Prominent {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{2, 1}, ids)
}

func TestBuildProminentUnknownBoardMember(t *testing.T) {
	view := BuildProminent([]BoardMember{{MemberID: 99, Year: 2010}}, nil)

	require.Len(t, view.Boards, 1)
	assert.Nil(t, view.Boards[0].Seats[0].Member)
	assert.Empty(t, view.Prominent)
}

func TestMembersInRange(t *testing.T) {
	members := []Member{
		{ID: 1, Surname: "appel"},
		{ID: 2, Surname: "Bakker"},
		{ID: 3, Surname: "Snow"},
		{ID: 4, Surname: ""},
	}

	got := MembersInRange(members, SurnameRange{Index: 0, Start: "A", End: "B"})

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.False(t, SurnameRange{Start: "", End: "Z"}.Contains("Snow"))
}
