package domain

type Button struct {
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

type Cosmetics struct {
	Color    *string `json:"color"`
	Image    *string `json:"image"`
	Nickname *string `json:"nickname"`
	Button   Button  `json:"button"`
}

// Member is a normalized member record. Age is computed once, when the record
// is fetched, and is not kept live.
type Member struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	Surname   string    `json:"surname"`
	Age       int       `json:"age"`
	Prominent *int      `json:"prominent"`
	Cosmetics Cosmetics `json:"cosmetics"`
}

// Guest is the empty member recorded when someone orders without an account.
func Guest() Member { return Member{} }

func (m Member) IsGuest() bool { return m.ID == 0 }
