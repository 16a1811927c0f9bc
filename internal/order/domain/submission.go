package domain

// SubmissionMember is empty for guest orders, so the backend sees no id at
// all rather than member 0.
type SubmissionMember struct {
	ID        *int64  `json:"id,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	Surname   *string `json:"surname,omitempty"`
}

type SubmissionProduct struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type SubmissionOrder struct {
	Products []SubmissionProduct `json:"products"`
}

// Submission is the body of POST /orders. Cosmetic and presentation fields
// never leave the terminal.
type Submission struct {
	Member SubmissionMember `json:"member"`
	Order  SubmissionOrder  `json:"order"`
}

func NewSubmission(o Order) Submission {
	products := make([]SubmissionProduct, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, SubmissionProduct{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	sub := Submission{Order: SubmissionOrder{Products: products}}
	if m := o.Member; !m.IsGuest() {
		sub.Member = SubmissionMember{ID: &m.ID, FirstName: &m.FirstName, Surname: &m.Surname}
	}
	return sub
}
