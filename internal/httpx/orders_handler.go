package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/vantagefleet/build-orders/internal/orders"
	"github.com/vantagefleet/build-orders/internal/pricing"
	"github.com/vantagefleet/build-orders/internal/redisx"
)

type OrdersHandler struct {
	Svc   *orders.Service
	Redis *redis.Client
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders", h.listOrders)
	r.Post("/orders", h.intake)
	r.Delete("/orders", h.deleteOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/transition", h.transition)
	r.Post("/orders/{id}/cancel", h.cancel)
	r.Patch("/orders/{id}/etas", h.updateEtas)
	r.Patch("/orders/{id}/inventory-status", h.setInventoryStatus)
	r.Patch("/orders/{id}/website-status", h.setWebsiteStatus)
	r.Get("/orders/{id}/events", h.listEvents)
	r.Get("/orders/{id}/notes", h.listNotes)
	r.Post("/orders/{id}/notes", h.addNote)
	r.Get("/orders/{id}/margin", h.margin)
}

func actor(r *http.Request) string {
	if u := r.Header.Get("X-User"); u != "" {
		return u
	}
	return "ops"
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orders.ErrInvalidStatus), errors.Is(err, orders.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	q := r.URL.Query()
	f := orders.Filter{
		Status:          orders.Status(q.Get("status")),
		InventoryStatus: orders.InventoryStatus(q.Get("inventory_status")),
		WebsiteStatus:   orders.WebsiteStatus(q.Get("website_status")),
		BuyerSegment:    orders.BuyerSegment(q.Get("buyer_segment")),
	}
	out, err := h.Svc.GetOrders(ctx, f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrder, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	o, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(o); err == nil {
			_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderCache).Err()
		}
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) intake(w http.ResponseWriter, r *http.Request) {
	var p orders.IntakePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.CreatedBy == "" {
		p.CreatedBy = actor(r)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Intake(ctx, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

type transitionReq struct {
	To orders.Status `json:"to"`
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request) {
	var req transitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.mutate(w, r, func(ctx context.Context, id string) (orders.Order, error) {
		return h.Svc.Transition(ctx, id, req.To, actor(r))
	})
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, id string) (orders.Order, error) {
		return h.Svc.Cancel(ctx, id, actor(r))
	})
}

func (h *OrdersHandler) updateEtas(w http.ResponseWriter, r *http.Request) {
	var patch orders.EtaPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.mutate(w, r, func(ctx context.Context, id string) (orders.Order, error) {
		return h.Svc.UpdateEtas(ctx, id, patch, actor(r))
	})
}

type inventoryReq struct {
	Status    orders.InventoryStatus `json:"status"`
	BuyerName string                 `json:"buyer_name,omitempty"`
}

func (h *OrdersHandler) setInventoryStatus(w http.ResponseWriter, r *http.Request) {
	var req inventoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.mutate(w, r, func(ctx context.Context, id string) (orders.Order, error) {
		return h.Svc.SetInventoryStatus(ctx, id, req.Status, req.BuyerName, actor(r))
	})
}

type websiteReq struct {
	Status orders.WebsiteStatus `json:"status"`
}

func (h *OrdersHandler) setWebsiteStatus(w http.ResponseWriter, r *http.Request) {
	var req websiteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.mutate(w, r, func(ctx context.Context, id string) (orders.Order, error) {
		return h.Svc.SetDealerWebsiteStatus(ctx, id, req.Status, actor(r))
	})
}

// mutate runs one per-order operation and drops the cached copy.
func (h *OrdersHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (orders.Order, error)) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := op(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidate(ctx, id)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) invalidate(ctx context.Context, id string) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrder, id)).Err()
}

type deleteReq struct {
	IDs []string `json:"ids"`
}

func (h *OrdersHandler) deleteOrders(w http.ResponseWriter, r *http.Request) {
	var req deleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	n, err := h.Svc.DeleteOrders(ctx, req.IDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	for _, id := range req.IDs {
		h.invalidate(ctx, id)
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (h *OrdersHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	evs, err := h.Svc.GetEvents(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evs)
}

type noteReq struct {
	Text string `json:"text"`
}

func (h *OrdersHandler) addNote(w http.ResponseWriter, r *http.Request) {
	var req noteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	n, err := h.Svc.AddNote(ctx, chi.URLParam(r, "id"), req.Text, actor(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *OrdersHandler) listNotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ns, err := h.Svc.GetNotes(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

type marginResp struct {
	Multipliers pricing.Multipliers `json:"multipliers"`
	DealerCost  float64             `json:"dealer_cost"`
	Margin      float64             `json:"margin"`
	Percent     float64             `json:"percent"`
}

// margin reports dealer-cost analytics from the frozen pricing snapshot.
func (h *OrdersHandler) margin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Svc.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	b := pricing.Breakdown{
		ChassisMSRP:  o.Pricing.ChassisMSRP,
		BodyPrice:    o.Pricing.BodyPrice,
		OptionsPrice: o.Pricing.OptionsPrice,
		LaborPrice:   o.Pricing.LaborPrice,
		Freight:      o.Pricing.Freight,
		Total:        o.Pricing.Total,
	}
	m := pricing.CostMultipliers(o.ID, o.Pricing.Total)
	margin, pct := pricing.Margin(b, m)
	writeJSON(w, http.StatusOK, marginResp{
		Multipliers: m,
		DealerCost:  pricing.DealerCost(b, m),
		Margin:      margin,
		Percent:     pct,
	})
}
