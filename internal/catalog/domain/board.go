package domain

// BoardMember is a historical board appointment, joined against Member by
// MemberID for display.
type BoardMember struct {
	MemberID int64  `json:"member_id"`
	Year     int    `json:"year"`
	Function string `json:"function"`
}

type Committee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CommitteeMembership struct {
	MemberID  int64     `json:"member_id"`
	Year      int       `json:"year"`
	Function  string    `json:"function"`
	Committee Committee `json:"committee"`
}
