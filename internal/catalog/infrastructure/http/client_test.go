package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/pos-terminal/pkg/apiclient"
)

func backend(t *testing.T, routes map[string]string) *CatalogClient {
	t.Helper()
	r := chi.NewRouter()
	for path, body := range routes {
		body := body // per-iteration copy; go.mod targets go1.21 loop semantics
		r.Get(path, func(w http.ResponseWriter, _ *http.Request) {
			if body == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCatalogClient(apiclient.New(log, srv.URL, time.Second))
}

func TestMembers(t *testing.T) {
	c := backend(t, map[string]string{PathMembers: `{"members": [{
		"id": 314, "voornaam": "John", "initialen": "", "tussenvoegsel": "",
		"achternaam": "Snow", "geboortedatum": "26-04-1993", "prominent": null,
		"kleur": null, "afbeelding": null, "bijnaam": null,
		"button_width": null, "button_height": 40
	}]}`})

	members, err := c.Members(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)

	m := members[0]
	assert.Equal(t, int64(314), m.ID)
	assert.Equal(t, "John", m.FirstName)
	assert.Equal(t, "Snow", m.Surname)
	require.NotNil(t, m.Birthdate)
	assert.Equal(t, "26-04-1993", *m.Birthdate)
	assert.Nil(t, m.Prominent)
	assert.Nil(t, m.ButtonWidth)
	require.NotNil(t, m.ButtonHeight)
	assert.Equal(t, 40, *m.ButtonHeight)
}

func TestProducts(t *testing.T) {
	c := backend(t, map[string]string{PathProducts: `{"products": [
		{"id": 1, "naam": "Grolsch", "prijs": "0.6500", "categorie": "Bier", "positie": 999,
		 "beschikbaar": 1, "afbeelding": "Uo6qQC4Hm8TUqyNjw2G4.jpg", "splash_afbeelding": null, "kleur": null}
	]}`})

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "0.6500", products[0].Price)
	assert.Equal(t, "Bier", products[0].Category)
	assert.Nil(t, products[0].SplashImage)
}

func TestBoardsAndCommittees(t *testing.T) {
	c := backend(t, map[string]string{
		PathBoards:     `{"boardMembers": [{"lid_id": 3, "jaar": 2016, "functie": "Voorzitter"}]}`,
		PathCommittees: `{"committees": [{"lid_id": 3, "jaar": 2016, "functie": "Lid", "commissie_id": 7, "naam": "Compucie"}]}`,
	})

	board, err := c.BoardMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, 2016, board[0].Year)

	committees, err := c.CommitteeMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, committees, 1)
	assert.Equal(t, "Compucie", committees[0].CommitteeName)
}

func TestFailureStatus(t *testing.T) {
	c := backend(t, map[string]string{PathMembers: ""})

	_, err := c.Members(context.Background())
	require.ErrorIs(t, err, apiclient.ErrUnexpectedStatus)

	_, err = c.Products(context.Background())
	require.ErrorIs(t, err, apiclient.ErrUnexpectedStatus)
}
