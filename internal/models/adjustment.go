package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Adjustment type constants
const (
	AdjustmentDividend = "Dividend"
	AdjustmentExpense  = "Expense"
	AdjustmentFee      = "Fee"
)

// Adjustment is a cash event tied to a trade, always expressed in GBP.
// Expenses and fees are stored negative, dividends positive.
type Adjustment struct {
	ID          uuid.UUID       `json:"id"`
	TradeID     uuid.UUID       `json:"tradeId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NormalizeSign forces the stored sign convention for the adjustment type
func (a *Adjustment) NormalizeSign() {
	switch a.Type {
	case AdjustmentExpense, AdjustmentFee:
		a.Amount = a.Amount.Abs().Neg()
	case AdjustmentDividend:
		a.Amount = a.Amount.Abs()
	}
}
