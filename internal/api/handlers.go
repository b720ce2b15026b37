package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/currency"
	"github.com/trogers1052/trade-journal/internal/economics"
	"github.com/trogers1052/trade-journal/internal/filterstore"
	"github.com/trogers1052/trade-journal/internal/levels"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/models"
	"github.com/trogers1052/trade-journal/internal/service"
	"go.uber.org/zap"
)

// RateProvider exposes the live currency table
type RateProvider interface {
	Rates() currency.Table
	Refresh(ctx context.Context) error
}

// Pinger reports backing store health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	journal *service.Journal
	filters filterstore.Store
	rates   RateProvider
	db      Pinger
}

// NewHandler creates a new Handler. db may be nil, in which case the health
// check does not probe storage.
func NewHandler(journal *service.Journal, filters filterstore.Store, rates RateProvider, db Pinger) *Handler {
	return &Handler{
		journal: journal,
		filters: filters,
		rates:   rates,
		db:      db,
	}
}

// ListTrades handles GET /trades
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.journal.ListTrades(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trades)
}

// GetTrade handles GET /trades/{id}
func (h *Handler) GetTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.journal.TradeDetail(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// GetEconomics handles GET /trades/{id}/economics
func (h *Handler) GetEconomics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	econ, err := h.journal.Economics(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, econ)
}

// CreateTrade handles POST /trades
func (h *Handler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var t models.Trade
	if !decode(w, r, &t) {
		return
	}

	created, err := h.journal.CreateTrade(r.Context(), &t)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateTrade handles PUT /trades/{id}
func (h *Handler) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var t models.Trade
	if !decode(w, r, &t) {
		return
	}

	updated, err := h.journal.UpdateTrade(r.Context(), id, &t)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteTrade handles DELETE /trades/{id}
func (h *Handler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.journal.DeleteTrade(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type closeTradeRequest struct {
	TradeID    uuid.UUID           `json:"tradeId"`
	ClosePrice decimal.NullDecimal `json:"closePrice"`
	CloseDate  *time.Time          `json:"closeDate"`
	Pnl        decimal.NullDecimal `json:"pnl"`
}

func (c closeTradeRequest) toCloseRequest() (economics.CloseRequest, error) {
	if !c.ClosePrice.Valid {
		return economics.CloseRequest{}, errors.New("closePrice is required")
	}
	req := economics.CloseRequest{
		ClosePrice: c.ClosePrice.Decimal,
		Pnl:        c.Pnl,
	}
	if c.CloseDate != nil {
		req.CloseDate = c.CloseDate.UTC()
	}
	return req, nil
}

// CloseTrade handles POST /trades/{id}/close
func (h *Handler) CloseTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body closeTradeRequest
	if !decode(w, r, &body) {
		return
	}
	h.closeTrade(w, r, id, body)
}

// CloseTradeLegacy handles POST /trades/close-trade, which carries the trade
// id in the body
func (h *Handler) CloseTradeLegacy(w http.ResponseWriter, r *http.Request) {
	var body closeTradeRequest
	if !decode(w, r, &body) {
		return
	}
	if body.TradeID == uuid.Nil {
		respondMessage(w, http.StatusBadRequest, "tradeId is required")
		return
	}
	h.closeTrade(w, r, body.TradeID, body)
}

func (h *Handler) closeTrade(w http.ResponseWriter, r *http.Request, id uuid.UUID, body closeTradeRequest) {
	req, err := body.toCloseRequest()
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	closed, err := h.journal.CloseTrade(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, closed)
}

// GetLevels handles GET /levels?entry=&atr=&currency=&type=
func (h *Handler) GetLevels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entry, err := parseNullDecimal(q.Get("entry"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid entry")
		return
	}
	atr, err := parseNullDecimal(q.Get("atr"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid atr")
		return
	}
	ccy := q.Get("currency")
	if ccy == "" {
		ccy = models.CurrencyGBP
	}

	lv, err := h.journal.Levels(entry, atr, ccy, q.Get("type"))
	resp := levelsResponse{Levels: lv}
	switch {
	case errors.Is(err, levels.ErrNonPositiveRisk):
		resp.Warning = err.Error()
	case err != nil:
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// levelsResponse carries the computed levels even when sizing failed, with
// quantity 0 and the reason in Warning
type levelsResponse struct {
	levels.Levels
	Warning string `json:"warning,omitempty"`
}

// GetRates handles GET /rates
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.rates.Rates())
}

// RefreshRates handles POST /rates/refresh
func (h *Handler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	if err := h.rates.Refresh(r.Context()); err != nil {
		logger.Warn("manual rate refresh failed", zap.Error(err))
		respondMessage(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.rates.Rates())
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTrade), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, economics.ErrAlreadyClosed):
		return http.StatusConflict
	case errors.Is(err, economics.ErrNotAPosition), errors.Is(err, levels.ErrNonPositiveRisk),
		errors.Is(err, service.ErrTradeNotOpen):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	respondMessage(w, status, err.Error())
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func parseNullDecimal(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
