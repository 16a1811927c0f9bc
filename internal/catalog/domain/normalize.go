package domain

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Birthdates arrive as dd-mm-yyyy; some older records use ISO dates.
var birthdateLayouts = []string{"02-01-2006", "2006-01-02"}

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

func NormalizeMember(raw RawMember, now time.Time) Member {
	return Member{
		ID:        raw.ID,
		FirstName: raw.FirstName,
		Surname:   raw.Surname,
		Age:       Age(raw.Birthdate, now),
		Prominent: raw.Prominent,
		Cosmetics: Cosmetics{
			Color:    raw.Color,
			Image:    raw.Image,
			Nickname: raw.Nickname,
			Button: Button{
				Width:  raw.ButtonWidth,
				Height: raw.ButtonHeight,
			},
		},
	}
}

// Age returns the number of full years between birthdate and now. A missing
// or unparseable birthdate yields 0.
func Age(birthdate *string, now time.Time) int {
	if birthdate == nil {
		return 0
	}
	born, ok := parseBirthdate(*birthdate, now.Location())
	if !ok {
		return 0
	}
	from, to := born, now
	if from.After(to) {
		from, to = to, from
	}
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

func parseBirthdate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range birthdateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func NormalizeProduct(raw RawProduct) Product {
	price, ok := PriceCents(raw.Price)
	p := Product{
		ID:          raw.ID,
		Name:        raw.Name,
		Price:       price,
		PriceValid:  ok,
		Position:    raw.Position,
		Category:    raw.Category,
		Image:       raw.Image,
		SplashImage: raw.SplashImage,
	}
	if raw.Category == AlcoholCategory {
		age := AlcoholMinAge
		p.AgeRestriction = &age
	}
	return p
}

// PriceCents converts a decimal price string to minor currency units,
// rounding half away from zero. The conversion is exact; no float is involved.
func PriceCents(s string) (int64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, false
	}
	return cents.IntPart(), true
}

func NormalizeBoardMember(raw RawBoardMember) BoardMember {
	return BoardMember{
		MemberID: raw.MemberID,
		Year:     raw.Year,
		Function: raw.Function,
	}
}

func NormalizeCommitteeMember(raw RawCommitteeMember) CommitteeMembership {
	return CommitteeMembership{
		MemberID: raw.MemberID,
		Year:     raw.Year,
		Function: raw.Function,
		Committee: Committee{
			ID:   raw.CommitteeID,
			Name: raw.CommitteeName,
		},
	}
}

func NormalizeMembers(raw []RawMember, now time.Time) []Member {
	members := make([]Member, 0, len(raw))
	for _, r := range raw {
		members = append(members, NormalizeMember(r, now))
	}
	SortMembers(members)
	return members
}

func NormalizeProducts(raw []RawProduct) []Product {
	products := make([]Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, NormalizeProduct(r))
	}
	return products
}

func NormalizeBoardMembers(raw []RawBoardMember) []BoardMember {
	board := make([]BoardMember, 0, len(raw))
	for _, r := range raw {
		board = append(board, NormalizeBoardMember(r))
	}
	SortBoardMembers(board)
	return board
}

func NormalizeCommitteeMembers(raw []RawCommitteeMember) []CommitteeMembership {
	out := make([]CommitteeMembership, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeCommitteeMember(r))
	}
	return out
}

// SortMembers orders members by surname, keeping the fetch order of members
// that share one.
func SortMembers(members []Member) {
	slices.SortStableFunc(members, func(a, b Member) int {
		return strings.Compare(a.Surname, b.Surname)
	})
}

func SortBoardMembers(board []BoardMember) {
	slices.SortStableFunc(board, func(a, b BoardMember) int {
		return cmp.Compare(a.Year, b.Year)
	})
}

// Committees lists the distinct committees found in memberships, by name.
func Committees(memberships []CommitteeMembership) []Committee {
	seen := make(map[int64]bool, len(memberships))
	var out []Committee
	for _, m := range memberships {
		if seen[m.Committee.ID] {
			continue
		}
		seen[m.Committee.ID] = true
		out = append(out, m.Committee)
	}
	slices.SortStableFunc(out, func(a, b Committee) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func CommitteeMembers(memberships []CommitteeMembership, committeeID int64) []CommitteeMembership {
	var out []CommitteeMembership
	for _, m := range memberships {
		if m.Committee.ID == committeeID {
			out = append(out, m)
		}
	}
	return out
}

func FindMember(members []Member, id int64) (Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

func FindProduct(products []Product, id int64) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
