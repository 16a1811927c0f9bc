package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	catalogapp "github.com/dmehra2102/pos-terminal/internal/catalog/application"
	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	orderapp "github.com/dmehra2102/pos-terminal/internal/order/application"
	order "github.com/dmehra2102/pos-terminal/internal/order/domain"
	"github.com/dmehra2102/pos-terminal/internal/session"
)

type JournalReader interface {
	Recent(ctx context.Context, terminalID string, limit int) ([]order.JournalEntry, error)
}

// Handler exposes the terminal's state and user actions to the kiosk front-end.
type Handler struct {
	log        *slog.Logger
	store      *session.Store
	nav        *session.Navigator
	ctrl       *session.Controller
	catalog    *catalogapp.Service
	journal    JournalReader
	terminalID string
	metrics    http.Handler
	tracer     trace.Tracer
}

func NewHandler(log *slog.Logger, store *session.Store, nav *session.Navigator, ctrl *session.Controller, catalog *catalogapp.Service, metrics http.Handler) *Handler {
	return &Handler{
		log:     log,
		store:   store,
		nav:     nav,
		ctrl:    ctrl,
		catalog: catalog,
		metrics: metrics,
		tracer:  otel.Tracer("terminal-http"),
	}
}

// WithJournal enables GET /journal.
func (h *Handler) WithJournal(j JournalReader, terminalID string) *Handler {
	h.journal = j
	h.terminalID = terminalID
	return h
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/state", h.getState)
	r.Get("/prominent", h.getProminent)
	r.Get("/members", h.getMembers)
	r.Get("/products", h.getProducts)
	r.Get("/committees/{id}", h.getCommitteeMembers)
	r.Get("/journal", h.getJournal)

	r.Post("/ranges", h.selectRange)
	r.Post("/members/{id}/select", h.selectMember)
	r.Post("/guest/select", h.selectGuest)
	r.Post("/committees/{id}/select", h.selectCommittee)
	r.Post("/back", h.goBack)

	r.Post("/order/buy-more", h.buyMore)
	r.Post("/order/products/{id}", h.addProduct)
	r.Post("/order/buy", h.buyAll)
	r.Delete("/queue/{orderedAt}", h.cancelOrder)

	r.Post("/refresh", h.refresh)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics)
	}
	return r
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) getProminent(w http.ResponseWriter, r *http.Request) {
	st := h.store.Snapshot()
	writeJSON(w, http.StatusOK, catalog.BuildProminent(st.BoardMembers, st.Members))
}

func (h *Handler) getMembers(w http.ResponseWriter, r *http.Request) {
	st := h.store.Snapshot()
	if st.SurnameRange == nil || r.URL.Query().Get("all") == "1" {
		writeJSON(w, http.StatusOK, st.Members)
		return
	}
	writeJSON(w, http.StatusOK, catalog.MembersInRange(st.Members, *st.SurnameRange))
}

// productView carries the age advisory for the selected member.
type productView struct {
	catalog.Product
	Allowed bool `json:"allowed"`
}

func (h *Handler) getProducts(w http.ResponseWriter, r *http.Request) {
	st := h.store.Snapshot()
	out := make([]productView, 0, len(st.Products))
	for _, p := range st.Products {
		allowed := true
		if st.SelectedMember != nil {
			allowed = p.AllowedFor(*st.SelectedMember)
		}
		out = append(out, productView{Product: p, Allowed: allowed})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getCommitteeMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, catalog.CommitteeMembers(h.store.Snapshot().Committees, id))
}

func (h *Handler) getJournal(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeError(w, http.StatusNotImplemented, "journal disabled")
		return
	}
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	entries, err := h.journal.Recent(r.Context(), h.terminalID, limit)
	if err != nil {
		h.log.Error("journal read failed", "err", err)
		writeError(w, http.StatusInternalServerError, "journal unavailable")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) selectRange(w http.ResponseWriter, r *http.Request) {
	var rng catalog.SurnameRange
	if err := json.NewDecoder(r.Body).Decode(&rng); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	h.nav.SelectRangeOfSurnames(rng)
	h.accepted(w)
}

func (h *Handler) selectMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, found := catalog.FindMember(h.store.Snapshot().Members, id)
	if !found {
		writeError(w, http.StatusNotFound, "unknown member")
		return
	}
	h.nav.SelectMember(m)
	h.accepted(w)
}

func (h *Handler) selectGuest(w http.ResponseWriter, r *http.Request) {
	h.nav.SelectGuest()
	h.accepted(w)
}

func (h *Handler) selectCommittee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	for _, c := range catalog.Committees(h.store.Snapshot().Committees) {
		if c.ID == id {
			h.nav.SelectCommittee(c)
			h.accepted(w)
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown committee")
}

func (h *Handler) goBack(w http.ResponseWriter, r *http.Request) {
	h.ctrl.GoBack()
	h.accepted(w)
}

func (h *Handler) buyMore(w http.ResponseWriter, r *http.Request) {
	h.ctrl.BuyMore()
	h.accepted(w)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddProductToOrder")
	defer span.End()

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, found := catalog.FindProduct(h.store.Snapshot().Products, id)
	if !found {
		writeError(w, http.StatusNotFound, "unknown product")
		return
	}
	if err := h.ctrl.AddProductToOrder(ctx, p); err != nil {
		h.orderError(w, err)
		return
	}
	h.accepted(w)
}

func (h *Handler) buyAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "BuyAll")
	defer span.End()

	q, err := h.ctrl.BuyAll(ctx)
	if err != nil {
		h.orderError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, q)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CancelOrder")
	defer span.End()

	at, err := strconv.ParseInt(chi.URLParam(r, "orderedAt"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid queue key")
		return
	}
	if err := h.ctrl.CancelOrder(ctx, order.QueuedOrder{OrderedAt: at}); err != nil {
		h.orderError(w, err)
		return
	}
	h.accepted(w)
}

// refresh reloads the catalog in the background; results arrive as actions.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := h.catalog.FetchInitialData(ctx); err != nil {
			h.log.Warn("refresh incomplete", "err", err)
		}
	}()
	h.accepted(w)
}

func (h *Handler) orderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoMember), errors.Is(err, orderapp.ErrEmptyOrder):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, orderapp.ErrNotQueued):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("order action failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) accepted(w http.ResponseWriter) {
	writeJSON(w, http.StatusAccepted, map[string]string{"location": h.store.Snapshot().Location})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
