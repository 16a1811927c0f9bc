package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/dmehra2102/pos-terminal/internal/catalog/application"
	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	orderapp "github.com/dmehra2102/pos-terminal/internal/order/application"
	order "github.com/dmehra2102/pos-terminal/internal/order/domain"
	"github.com/dmehra2102/pos-terminal/internal/session"
	"github.com/dmehra2102/pos-terminal/pkg/metrics"
)

type staticAPI struct{}

func (staticAPI) Members(context.Context) ([]catalog.RawMember, error) {
	born := "26-04-1990"
	rank := 5
	return []catalog.RawMember{
		{ID: 314, FirstName: "John", Surname: "Snow", Birthdate: &born, Prominent: &rank},
		{ID: 2, FirstName: "Arya", Surname: "Stark"},
	}, nil
}

func (staticAPI) Products(context.Context) ([]catalog.RawProduct, error) {
	return []catalog.RawProduct{
		{ID: 1, Name: "Grolsch", Price: "0.6500", Category: "Bier"},
		{ID: 3, Name: "Cola", Price: "0.50", Category: "Fris"},
	}, nil
}

func (staticAPI) BoardMembers(context.Context) ([]catalog.RawBoardMember, error) {
	return []catalog.RawBoardMember{{MemberID: 2, Year: 2016, Function: "Voorzitter"}}, nil
}

func (staticAPI) CommitteeMembers(context.Context) ([]catalog.RawCommitteeMember, error) {
	return []catalog.RawCommitteeMember{{MemberID: 314, Year: 2016, Function: "Lid", CommitteeID: 7, CommitteeName: "Compucie"}}, nil
}

type nopSubmitter struct{}

func (nopSubmitter) SubmitOrder(context.Context, order.Submission) error { return nil }

type terminal struct {
	srv   *httptest.Server
	store *session.Store
	mgr   *orderapp.Manager
}

func newTerminal(t *testing.T) terminal {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	store := session.NewStore(log)
	nav := session.NewNavigator(store)
	mgr := orderapp.NewManager(log, store, nopSubmitter{}, nav, orderapp.WithGracePeriod(time.Hour), orderapp.WithMetrics(m))
	ctrl := session.NewController(log, store, nav, mgr)
	svc := catalogapp.NewService(log, staticAPI{}, store, m)
	require.NoError(t, svc.FetchInitialData(context.Background()))

	h := NewHandler(log, store, nav, ctrl, svc, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return terminal{srv: srv, store: store, mgr: mgr}
}

func (tm terminal) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, tm.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestSelectRangeAndMembers(t *testing.T) {
	tm := newTerminal(t)

	resp, _ := tm.do(t, http.MethodPost, "/ranges", `{"idx": 3, "surname_start": "S", "surname_end": "S"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "/members/3", tm.store.Snapshot().Location)

	resp, body := tm.do(t, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var members []catalog.Member
	require.NoError(t, json.Unmarshal(body, &members))
	assert.Len(t, members, 2)
}

func TestBuyAndCancelFlow(t *testing.T) {
	tm := newTerminal(t)

	resp, _ := tm.do(t, http.MethodPost, "/members/314/select", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, _ = tm.do(t, http.MethodPost, "/order/products/1", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	pending := tm.mgr.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "/", tm.store.Snapshot().Location)

	key := strconv.FormatInt(pending[0].OrderedAt, 10)
	resp, _ = tm.do(t, http.MethodDelete, "/queue/"+key, "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "/products", tm.store.Snapshot().Location)

	resp, _ = tm.do(t, http.MethodDelete, "/queue/"+key, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGuestBuysRestrictedProductWithAdvisory(t *testing.T) {
	tm := newTerminal(t)

	tm.do(t, http.MethodPost, "/guest/select", "")
	_, body := tm.do(t, http.MethodGet, "/products", "")
	var products []struct {
		ID      int64 `json:"id"`
		Allowed bool  `json:"allowed"`
	}
	require.NoError(t, json.Unmarshal(body, &products))
	allowed := map[int64]bool{}
	for _, p := range products {
		allowed[p.ID] = p.Allowed
	}
	assert.Equal(t, map[int64]bool{1: false, 3: true}, allowed)

	resp, _ := tm.do(t, http.MethodPost, "/order/products/1", "")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Len(t, tm.mgr.Pending(), 1)
	assert.True(t, tm.mgr.Pending()[0].Order.Member.IsGuest())
}

func TestBuyMoreThenBuyAll(t *testing.T) {
	tm := newTerminal(t)

	tm.do(t, http.MethodPost, "/members/314/select", "")
	tm.do(t, http.MethodPost, "/order/buy-more", "")
	tm.do(t, http.MethodPost, "/order/products/1", "")
	tm.do(t, http.MethodPost, "/order/products/3", "")
	assert.Empty(t, tm.mgr.Pending())

	resp, body := tm.do(t, http.MethodPost, "/order/buy", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var q order.QueuedOrder
	require.NoError(t, json.Unmarshal(body, &q))
	assert.Equal(t, int64(115), q.Order.TotalCents())
}

func TestNotFoundAndBadRequests(t *testing.T) {
	tm := newTerminal(t)

	resp, _ := tm.do(t, http.MethodPost, "/members/999/select", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = tm.do(t, http.MethodPost, "/members/abc/select", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = tm.do(t, http.MethodPost, "/order/buy", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = tm.do(t, http.MethodGet, "/journal", "")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestCommitteesAndProminent(t *testing.T) {
	tm := newTerminal(t)

	resp, _ := tm.do(t, http.MethodPost, "/committees/7/select", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "/committees/7", tm.store.Snapshot().Location)

	_, body := tm.do(t, http.MethodGet, "/prominent", "")
	var view catalog.ProminentView
	require.NoError(t, json.Unmarshal(body, &view))
	require.Len(t, view.Boards, 1)
	require.Len(t, view.Prominent, 1)
	assert.Equal(t, int64(314), view.Prominent[0].ID)
}

func TestGoBackAndMetrics(t *testing.T) {
	tm := newTerminal(t)

	tm.do(t, http.MethodPost, "/members/2/select", "")
	resp, _ := tm.do(t, http.MethodPost, "/back", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Nil(t, tm.store.Snapshot().SelectedMember)
	assert.Equal(t, "/", tm.store.Snapshot().Location)

	_, body := tm.do(t, http.MethodGet, "/metrics", "")
	assert.Contains(t, string(body), `pos_fetch_total{outcome="success",resource="members"} 1`)
}
