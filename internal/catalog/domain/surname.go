package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SurnameRange selects members whose surname starts with a letter between
// Start and End, inclusive.
type SurnameRange struct {
	Index int    `json:"idx"`
	Start string `json:"surname_start"`
	End   string `json:"surname_end"`
}

func (r SurnameRange) Contains(surname string) bool {
	first := firstLetter(surname)
	if first == 0 {
		return false
	}
	start, end := firstLetter(r.Start), firstLetter(r.End)
	if start == 0 || end == 0 {
		return false
	}
	return first >= start && first <= end
}

func MembersInRange(members []Member, r SurnameRange) []Member {
	var out []Member
	for _, m := range members {
		if r.Contains(m.Surname) {
			out = append(out, m)
		}
	}
	return out
}

func firstLetter(s string) rune {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.ToUpper(r)
}
