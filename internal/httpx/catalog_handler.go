package httpx

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/vantagefleet/build-orders/internal/catalog"
	"github.com/vantagefleet/build-orders/internal/configurator"
	"github.com/vantagefleet/build-orders/internal/pricing"
	"github.com/vantagefleet/build-orders/internal/redisx"
)

type CatalogHandler struct {
	Catalog catalog.Provider
	Pricing pricing.Config
	Redis   *redis.Client
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/catalog/chassis", h.chassis)
	r.Get("/catalog/bodies", h.bodies)
	r.Get("/catalog/options", h.options)
	r.Get("/catalog/incentives", h.incentives)
	r.Get("/catalog/upfitters", h.upfitters)
	r.Post("/quote", h.quote)
}

func (h *CatalogHandler) chassis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.GetChassis())
}

func (h *CatalogHandler) bodies(w http.ResponseWriter, r *http.Request) {
	if bt := r.URL.Query().Get("type"); bt != "" {
		body, ok := h.Catalog.GetBody(bt)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown body type")
			return
		}
		writeJSON(w, http.StatusOK, body)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.GetBodies())
}

func (h *CatalogHandler) options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.GetOptions())
}

func (h *CatalogHandler) incentives(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.Catalog.GetIncentives(catalog.IncentiveFilter{
		Series:         q.Get("series"),
		BodyType:       q.Get("body_type"),
		State:          q.Get("state"),
		PowertrainType: q.Get("powertrain_type"),
	}))
}

func (h *CatalogHandler) upfitters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.Catalog.GetUpfitters(catalog.UpfitterFilter{
		State:     q.Get("state"),
		Specialty: q.Get("specialty"),
		EvReady:   q.Get("ev_ready") == "true",
	}))
}

type quoteReq struct {
	Configuration       configurator.Configuration `json:"configuration"`
	CreditTier          string                     `json:"credit_tier,omitempty"`
	TermMonths          int                        `json:"term_months,omitempty"`
	DownPaymentFraction float64                    `json:"down_payment_fraction,omitempty"`
}

// quote prices a configuration with the live catalogs. Missing catalog
// data degrades to zero contributions; this endpoint always returns a
// breakdown. Identical requests are served from the short-lived quote
// cache.
func (h *CatalogHandler) quote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	var req quoteReq
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var key string
	if h.Redis != nil {
		sum := sha256.Sum256(body)
		key = fmt.Sprintf(redisx.KeyQuote, hex.EncodeToString(sum[:16]))
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	cfg := req.Configuration
	sel := cfg.Selection()
	set := h.Catalog.GetIncentives(catalog.IncentiveFilter{
		Series:   sel.Series,
		BodyType: sel.BodyType,
		State:    sel.State,
	})

	b := pricing.Quote(sel, h.Catalog.GetChassis(), h.Catalog.GetBodies(), h.Catalog.GetOptions(), set.Incentives, h.Pricing)
	if req.TermMonths > 0 {
		apr, _ := pricing.RateForTier(set.Financing.Rates, req.CreditTier)
		b.MonthlyPayment = pricing.MonthlyPayment(b.Total, apr, req.TermMonths, req.DownPaymentFraction)
	}
	if key != "" {
		if raw, err := json.Marshal(b); err == nil {
			_ = h.Redis.Set(r.Context(), key, raw, redisx.TTLQuoteCache).Err()
		}
	}
	writeJSON(w, http.StatusOK, b)
}
