package domain

const (
	AlcoholCategory = "Bier"
	AlcoholMinAge   = 18
)

type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Position int    `json:"position"`
	Category string `json:"category"`
	// PriceValid is false when the source price could not be parsed; Price is 0 then.
	PriceValid     bool    `json:"-"`
	Image          *string `json:"image"`
	SplashImage    *string `json:"splash_image"`
	AgeRestriction *int    `json:"age_restriction"`
}

// AllowedFor reports whether m is known to be old enough for p. It is
// advisory: guests and members without a birthdate have age 0 and report
// false, which the kiosk shows as a warning.
func (p Product) AllowedFor(m Member) bool {
	if p.AgeRestriction == nil {
		return true
	}
	return m.Age >= *p.AgeRestriction
}
