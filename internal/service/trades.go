package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/economics"
	"github.com/trogers1052/trade-journal/internal/levels"
	"github.com/trogers1052/trade-journal/internal/models"
	"github.com/trogers1052/trade-journal/internal/snapshots"
)

// TradeDetail is everything the trade view shows about one trade
type TradeDetail struct {
	Trade          *models.Trade        `json:"trade"`
	Economics      *economics.Economics `json:"economics,omitempty"`
	Levels         levels.Levels        `json:"levels"`
	LatestPrice    decimal.NullDecimal  `json:"latestPrice"`
	PeakPrice      decimal.NullDecimal  `json:"peakPrice"`
	ChangeFromPeak decimal.NullDecimal  `json:"changeFromPeak"`
	Adjustments    []*models.Adjustment `json:"adjustments"`
	Snapshots      []*models.Snapshot   `json:"snapshots"`
}

// GetTrade returns one trade
func (j *Journal) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	return j.repo.GetTradeByID(ctx, id)
}

// ListTrades returns every trade
func (j *Journal) ListTrades(ctx context.Context) ([]*models.Trade, error) {
	return j.repo.GetAllTrades(ctx)
}

// TradeDetail assembles a trade with its economics, levels and price history
func (j *Journal) TradeDetail(ctx context.Context, id uuid.UUID) (*TradeDetail, error) {
	t, err := j.repo.GetTradeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	adjustments, err := j.repo.GetAdjustmentsByTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	snaps, err := j.repo.GetSnapshotsByTrade(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &TradeDetail{
		Trade:       t,
		Adjustments: adjustments,
		Snapshots:   snaps,
		LatestPrice: snapshots.LatestPrice(snaps),
		PeakPrice:   snapshots.PeakPrice(snaps, t.Type),
	}
	detail.ChangeFromPeak = snapshots.ChangeFromPeak(detail.LatestPrice, detail.PeakPrice, t.Type)

	lv, err := j.levels.ComputeForDirection(decimal.NewNullDecimal(t.EntryPrice), t.ATR, t.Currency, t.Type)
	if err != nil && !errors.Is(err, levels.ErrNonPositiveRisk) {
		return nil, err
	}
	detail.Levels = lv

	econ, err := j.profit.Compute(t, adjustments, detail.LatestPrice, j.now())
	switch {
	case err == nil:
		detail.Economics = &econ
	case errors.Is(err, economics.ErrNotAPosition):
	default:
		return nil, err
	}
	return detail, nil
}

// Economics returns the P&L breakdown of one trade
func (j *Journal) Economics(ctx context.Context, id uuid.UUID) (*economics.Economics, error) {
	t, err := j.repo.GetTradeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	adjustments, err := j.repo.GetAdjustmentsByTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	snaps, err := j.repo.GetSnapshotsByTrade(ctx, id)
	if err != nil {
		return nil, err
	}

	econ, err := j.profit.Compute(t, adjustments, snapshots.LatestPrice(snaps), j.now())
	if err != nil {
		return nil, err
	}
	return &econ, nil
}

// CreateTrade validates and stores a new Open or Considering trade
func (j *Journal) CreateTrade(ctx context.Context, t *models.Trade) (*models.Trade, error) {
	t.Ticker = strings.ToUpper(strings.TrimSpace(t.Ticker))
	if t.Status == "" {
		t.Status = models.StatusOpen
	}
	if t.Status == models.StatusClosed {
		return nil, fmt.Errorf("%w: trades are closed through the close operation", models.ErrInvalidTransition)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	t.ID = uuid.Nil
	t.CloseDate = nil
	t.ClosePrice = decimal.NullDecimal{}
	t.Pnl = decimal.NullDecimal{}
	t.NetProfit = decimal.NullDecimal{}
	t.AdjustmentsTotal = decimal.NullDecimal{}
	t.OvernightInterestTotal = decimal.NullDecimal{}
	t.WNL = ""

	if err := j.repo.CreateTrade(ctx, t); err != nil {
		return nil, err
	}
	if t.Status == models.StatusOpen {
		j.publish(ctx, models.EventTradeOpened, t, nil)
	}
	return t, nil
}

// UpdateTrade replaces the editable fields of a trade. Moving to Closed is
// rejected; that happens through CloseTrade so the aggregates get frozen.
func (j *Journal) UpdateTrade(ctx context.Context, id uuid.UUID, patch *models.Trade) (*models.Trade, error) {
	existing, err := j.repo.GetTradeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status == "" {
		patch.Status = existing.Status
	}
	if patch.Status != existing.Status {
		if patch.Status == models.StatusClosed {
			return nil, fmt.Errorf("%w: trades are closed through the close operation", models.ErrInvalidTransition)
		}
		if !models.CanTransition(existing.Status, patch.Status) {
			return nil, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, existing.Status, patch.Status)
		}
	}

	updated := *existing
	updated.Ticker = strings.ToUpper(strings.TrimSpace(patch.Ticker))
	updated.Market = patch.Market
	updated.Currency = patch.Currency
	updated.Type = patch.Type
	updated.AssetType = patch.AssetType
	updated.Strategy = patch.Strategy
	updated.Status = patch.Status
	updated.Date = patch.Date
	updated.EntryPrice = patch.EntryPrice
	updated.Quantity = patch.Quantity
	updated.StopLoss = patch.StopLoss
	updated.TakeProfit = patch.TakeProfit
	updated.ATR = patch.ATR
	updated.OvernightInterest = patch.OvernightInterest
	updated.Note = patch.Note
	updated.ManualCurrentPrice = patch.ManualCurrentPrice
	updated.HighestClosePrice = patch.HighestClosePrice

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := j.repo.UpdateTrade(ctx, &updated); err != nil {
		return nil, err
	}

	if existing.Status == models.StatusConsidering && updated.Status == models.StatusOpen {
		j.publish(ctx, models.EventTradeOpened, &updated, nil)
	}
	return &updated, nil
}

// CloseTrade freezes a trade's aggregates at the given close terms
func (j *Journal) CloseTrade(ctx context.Context, id uuid.UUID, req economics.CloseRequest) (*models.Trade, error) {
	t, err := j.repo.GetTradeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CloseDate.IsZero() {
		req.CloseDate = j.now().UTC()
	}

	adjustments, err := j.repo.GetAdjustmentsByTrade(ctx, id)
	if err != nil {
		return nil, err
	}

	closed, err := j.profit.CloseOut(t, req, adjustments)
	if err != nil {
		return nil, err
	}
	if err := j.repo.CloseTrade(ctx, closed); err != nil {
		return nil, err
	}

	j.publish(ctx, models.EventTradeClosed, closed, nil)
	return closed, nil
}

// DeleteTrade removes a trade and everything attached to it
func (j *Journal) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	t, err := j.repo.GetTradeByID(ctx, id)
	if err != nil {
		return err
	}
	if err := j.repo.DeleteTrade(ctx, id); err != nil {
		return err
	}
	j.publish(ctx, models.EventTradeDeleted, t, nil)
	return nil
}

// Levels computes stop-loss, take-profit and size for a prospective entry
func (j *Journal) Levels(entry, atr decimal.NullDecimal, currency, tradeType string) (levels.Levels, error) {
	if tradeType == "" {
		tradeType = models.TradeTypeLong
	}
	return j.levels.ComputeForDirection(entry, atr, currency, tradeType)
}

// LevelParams returns the strategy multipliers in use
func (j *Journal) LevelParams() levels.Params {
	return j.levels.Params()
}
