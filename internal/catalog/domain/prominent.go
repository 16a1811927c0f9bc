package domain

import (
	"cmp"
	"slices"
)

const (
	ShownBoards  = 6
	MaxProminent = 200
)

type BoardSeat struct {
	MemberID int64   `json:"id"`
	Year     int     `json:"year"`
	Function string  `json:"function"`
	Member   *Member `json:"member"`
}

type Board struct {
	Year  int         `json:"year"`
	Seats []BoardSeat `json:"seats"`
}

type ProminentView struct {
	Boards    []Board  `json:"boards"`
	Prominent []Member `json:"prominent"`
}

// BuildProminent returns the most recent boards and the prominent members
// that are not already shown on one of those boards.
func BuildProminent(boardMembers []BoardMember, members []Member) ProminentView {
	byID := make(map[int64]Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	byYear := make(map[int][]BoardSeat)
	var years []int
	for _, bm := range boardMembers {
		seat := BoardSeat{MemberID: bm.MemberID, Year: bm.Year, Function: bm.Function}
		if m, ok := byID[bm.MemberID]; ok {
			seat.Member = &m
		}
		if _, ok := byYear[bm.Year]; !ok {
			years = append(years, bm.Year)
		}
		byYear[bm.Year] = append(byYear[bm.Year], seat)
	}
	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })
	if len(years) > ShownBoards {
		years = years[:ShownBoards]
	}

	view := ProminentView{Boards: make([]Board, 0, len(years))}
	onBoard := make(map[int64]bool)
	for _, y := range years {
		seats := byYear[y]
		for _, s := range seats {
			if s.Member != nil {
				onBoard[s.MemberID] = true
			}
		}
		view.Boards = append(view.Boards, Board{Year: y, Seats: seats})
	}

	var prominent []Member
	for _, m := range members {
		if m.Prominent != nil && !onBoard[m.ID] {
			prominent = append(prominent, m)
		}
	}
	slices.SortStableFunc(prominent, func(a, b Member) int {
		return cmp.Compare(*b.Prominent, *a.Prominent)
	})
	if len(prominent) > MaxProminent {
		prominent = prominent[:MaxProminent]
	}
	view.Prominent = prominent
	return view
}
