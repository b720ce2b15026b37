package economics

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/models"
)

var (
	// ErrNotAPosition is returned for Considering trades, which carry no P&L
	ErrNotAPosition = errors.New("trade is not a position")
	// ErrIncompleteClosedTrade is returned when a closed trade lacks its frozen aggregates
	ErrIncompleteClosedTrade = errors.New("closed trade is missing stored aggregates")
	// ErrAlreadyClosed is returned when closing a trade twice
	ErrAlreadyClosed = errors.New("trade is already closed")
)

// Price source constants
const (
	PriceSourceManual   = "manual"
	PriceSourceSnapshot = "snapshot"
	PriceSourceClose    = "close"
	PriceSourceStored   = "stored"
	PriceSourceNone     = "none"
)

// RateSource converts a quote currency into GBP
type RateSource interface {
	RateToGBP(code string) decimal.Decimal
}

// Economics is the P&L breakdown of a single trade, all in GBP
type Economics struct {
	Status                 string              `json:"status"`
	EffectivePrice         decimal.NullDecimal `json:"effectivePrice"`
	PriceSource            string              `json:"priceSource"`
	PriceAvailable         bool                `json:"priceAvailable"`
	GrossProfit            decimal.Decimal     `json:"grossProfit"`
	TotalAdjustments       decimal.Decimal     `json:"totalAdjustments"`
	OvernightInterestTotal decimal.Decimal     `json:"overnightInterestTotal"`
	NetProfit              decimal.Decimal     `json:"netProfit"`
	DaysHeld               int                 `json:"daysHeld"`
}

// Calculator computes trade economics against a rate source
type Calculator struct {
	rates RateSource
}

// NewCalculator creates a profit calculator
func NewCalculator(rates RateSource) *Calculator {
	return &Calculator{rates: rates}
}

// Compute returns the economics of t. Closed trades report their stored
// aggregates unchanged. Open trades are valued at the manual price override,
// then latestSnapshot, then the close price. With no price available gross
// profit is zero and PriceAvailable is false.
func (c *Calculator) Compute(t *models.Trade, adjustments []*models.Adjustment, latestSnapshot decimal.NullDecimal, now time.Time) (Economics, error) {
	switch t.Status {
	case models.StatusClosed:
		return c.closed(t)
	case models.StatusOpen:
		return c.open(t, adjustments, latestSnapshot, now), nil
	case models.StatusConsidering:
		return Economics{}, ErrNotAPosition
	}
	return Economics{}, fmt.Errorf("unknown trade status %q", t.Status)
}

func (c *Calculator) closed(t *models.Trade) (Economics, error) {
	if !t.Pnl.Valid || !t.NetProfit.Valid || !t.AdjustmentsTotal.Valid || !t.OvernightInterestTotal.Valid || t.CloseDate == nil {
		return Economics{}, fmt.Errorf("%w: %s", ErrIncompleteClosedTrade, t.ID)
	}

	return Economics{
		Status:                 models.StatusClosed,
		EffectivePrice:         t.ClosePrice,
		PriceSource:            PriceSourceStored,
		PriceAvailable:         t.ClosePrice.Valid,
		GrossProfit:            t.Pnl.Decimal,
		TotalAdjustments:       t.AdjustmentsTotal.Decimal,
		OvernightInterestTotal: t.OvernightInterestTotal.Decimal,
		NetProfit:              t.NetProfit.Decimal,
		DaysHeld:               DaysHeld(t.Date, *t.CloseDate),
	}, nil
}

func (c *Calculator) open(t *models.Trade, adjustments []*models.Adjustment, latestSnapshot decimal.NullDecimal, now time.Time) Economics {
	e := Economics{
		Status:           models.StatusOpen,
		PriceSource:      PriceSourceNone,
		TotalAdjustments: SumAdjustments(adjustments),
		DaysHeld:         DaysHeld(t.Date, now),
	}

	switch {
	case t.ManualCurrentPrice.Valid:
		e.EffectivePrice, e.PriceSource = t.ManualCurrentPrice, PriceSourceManual
	case latestSnapshot.Valid:
		e.EffectivePrice, e.PriceSource = latestSnapshot, PriceSourceSnapshot
	case t.ClosePrice.Valid:
		e.EffectivePrice, e.PriceSource = t.ClosePrice, PriceSourceClose
	}

	if e.EffectivePrice.Valid {
		e.PriceAvailable = true
		e.GrossProfit = c.GrossProfit(t, e.EffectivePrice.Decimal)
	}

	e.OvernightInterestTotal = t.OvernightInterest.Mul(decimal.NewFromInt(int64(e.DaysHeld)))
	e.NetProfit = e.GrossProfit.Add(e.TotalAdjustments).Sub(e.OvernightInterestTotal)
	return e
}

// GrossProfit is the signed, GBP-normalised price move of t valued at price
func (c *Calculator) GrossProfit(t *models.Trade, price decimal.Decimal) decimal.Decimal {
	return price.Sub(t.EntryPrice).
		Mul(t.Quantity).
		Mul(c.rates.RateToGBP(t.Currency)).
		Mul(t.Direction())
}

// SumAdjustments totals adjustment amounts. Amounts are already GBP.
func SumAdjustments(adjustments []*models.Adjustment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range adjustments {
		if a == nil {
			continue
		}
		total = total.Add(a.Amount)
	}
	return total
}

// DaysHeld counts whole calendar days between two instants in UTC, never
// negative
func DaysHeld(from, to time.Time) int {
	start := truncateDay(from)
	end := truncateDay(to)
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
