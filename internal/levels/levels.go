package levels

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/models"
)

// ErrNonPositiveRisk is returned when the risk per unit is zero or negative,
// so no position size can be derived
var ErrNonPositiveRisk = errors.New("risk per unit must be positive")

const priceDecimals = 4

// RateSource converts a quote currency into GBP
type RateSource interface {
	RateToGBP(code string) decimal.Decimal
}

// Params are the empirically derived strategy multipliers
type Params struct {
	AvgSL       decimal.Decimal // ATR multiple from entry to stop-loss
	AvgTP       decimal.Decimal // ATR multiple from entry to take-profit
	AccountRisk decimal.Decimal // GBP risked per trade
}

// DefaultParams returns 1.56 / 3.54 / 100
func DefaultParams() Params {
	return Params{
		AvgSL:       decimal.RequireFromString("1.56"),
		AvgTP:       decimal.RequireFromString("3.54"),
		AccountRisk: decimal.NewFromInt(100),
	}
}

// NewParams builds Params from configuration floats
func NewParams(avgSL, avgTP, accountRisk float64) Params {
	return Params{
		AvgSL:       decimal.NewFromFloat(avgSL),
		AvgTP:       decimal.NewFromFloat(avgTP),
		AccountRisk: decimal.NewFromFloat(accountRisk),
	}
}

// Levels are the suggested order levels for a new trade. The zero value
// marshals to {}.
type Levels struct {
	StopLoss       *decimal.Decimal `json:"stopLoss,omitempty"`
	TakeProfit     *decimal.Decimal `json:"takeProfit,omitempty"`
	BreakEven      *decimal.Decimal `json:"breakEven,omitempty"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	RiskPerUnitGBP *decimal.Decimal `json:"riskPerUnitGBP,omitempty"`
}

// IsEmpty reports whether no levels were computed
func (l Levels) IsEmpty() bool {
	return l.StopLoss == nil && l.TakeProfit == nil && l.Quantity == nil
}

// Calculator derives stop-loss, take-profit and position size from ATR
type Calculator struct {
	params Params
	rates  RateSource
}

// NewCalculator creates a level calculator
func NewCalculator(params Params, rates RateSource) *Calculator {
	return &Calculator{params: params, rates: rates}
}

// Params returns the multipliers in use
func (c *Calculator) Params() Params {
	return c.params
}

// Compute returns levels for a Long entry
func (c *Calculator) Compute(entry, atr decimal.NullDecimal, currency string) (Levels, error) {
	return c.ComputeForDirection(entry, atr, currency, models.TradeTypeLong)
}

// ComputeForDirection returns levels for the given trade type. For Short the
// stop sits above entry and the target below it. Missing or zero entry or
// ATR yields empty levels and no error. A non-positive risk per unit yields
// quantity 0 with ErrNonPositiveRisk.
func (c *Calculator) ComputeForDirection(entry, atr decimal.NullDecimal, currency, tradeType string) (Levels, error) {
	if !entry.Valid || !atr.Valid || entry.Decimal.IsZero() || atr.Decimal.IsZero() {
		return Levels{}, nil
	}

	dir := models.Direction(tradeType)
	slDistance := c.params.AvgSL.Mul(atr.Decimal)
	tpDistance := c.params.AvgTP.Mul(atr.Decimal)

	stopLoss := entry.Decimal.Sub(slDistance.Mul(dir)).Round(priceDecimals)
	takeProfit := entry.Decimal.Add(tpDistance.Mul(dir)).Round(priceDecimals)
	breakEven := entry.Decimal.Add(slDistance.Mul(dir)).Round(priceDecimals)

	riskPerUnit := slDistance.Mul(c.rates.RateToGBP(currency))
	levels := Levels{
		StopLoss:       &stopLoss,
		TakeProfit:     &takeProfit,
		BreakEven:      &breakEven,
		RiskPerUnitGBP: &riskPerUnit,
	}

	if !riskPerUnit.IsPositive() {
		zero := decimal.Zero
		levels.Quantity = &zero
		return levels, ErrNonPositiveRisk
	}

	quantity := c.params.AccountRisk.Div(riskPerUnit).Floor()
	levels.Quantity = &quantity
	return levels, nil
}
