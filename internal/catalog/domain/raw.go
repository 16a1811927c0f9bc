package domain

// Raw records as served by the backend API. Field names are the backend's.

type RawMember struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"voornaam"`
	Initials     string  `json:"initialen"`
	Infix        string  `json:"tussenvoegsel"`
	Surname      string  `json:"achternaam"`
	Birthdate    *string `json:"geboortedatum"`
	Prominent    *int    `json:"prominent"`
	Color        *string `json:"kleur"`
	Image        *string `json:"afbeelding"`
	Nickname     *string `json:"bijnaam"`
	ButtonWidth  *int    `json:"button_width"`
	ButtonHeight *int    `json:"button_height"`
}

type RawProduct struct {
	ID          int64   `json:"id"`
	Name        string  `json:"naam"`
	Price       string  `json:"prijs"`
	Category    string  `json:"categorie"`
	Position    int     `json:"positie"`
	Available   int     `json:"beschikbaar"`
	Image       *string `json:"afbeelding"`
	SplashImage *string `json:"splash_afbeelding"`
	Color       *string `json:"kleur"`
}

type RawBoardMember struct {
	MemberID int64  `json:"lid_id"`
	Year     int    `json:"jaar"`
	Function string `json:"functie"`
}

type RawCommitteeMember struct {
	MemberID      int64  `json:"lid_id"`
	Year          int    `json:"jaar"`
	Function      string `json:"functie"`
	CommitteeID   int64  `json:"commissie_id"`
	CommitteeName string `json:"naam"`
}

type MembersResponse struct {
	Members []RawMember `json:"members"`
}

type ProductsResponse struct {
	Products []RawProduct `json:"products"`
}

type BoardsResponse struct {
	BoardMembers []RawBoardMember `json:"boardMembers"`
}

type CommitteesResponse struct {
	Committees []RawCommitteeMember `json:"committees"`
}
