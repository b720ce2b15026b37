package economics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/models"
)

// CloseRequest carries the user-supplied close terms
type CloseRequest struct {
	ClosePrice decimal.Decimal
	CloseDate  time.Time
	// Pnl overrides the computed gross profit when valid
	Pnl decimal.NullDecimal
}

// CloseOut computes the frozen aggregates for closing t. The returned trade
// is a copy; t is not modified.
func (c *Calculator) CloseOut(t *models.Trade, req CloseRequest, adjustments []*models.Adjustment) (*models.Trade, error) {
	if t.Status == models.StatusClosed {
		return nil, ErrAlreadyClosed
	}
	if !models.CanTransition(t.Status, models.StatusClosed) {
		return nil, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, t.Status, models.StatusClosed)
	}
	if !req.ClosePrice.IsPositive() {
		return nil, fmt.Errorf("%w: close price must be positive", models.ErrInvalidTrade)
	}
	if req.CloseDate.IsZero() {
		return nil, fmt.Errorf("%w: close date is required", models.ErrInvalidTrade)
	}

	gross := c.GrossProfit(t, req.ClosePrice)
	if req.Pnl.Valid {
		gross = req.Pnl.Decimal
	}
	adjTotal := SumAdjustments(adjustments)
	days := DaysHeld(t.Date, req.CloseDate)
	interest := t.OvernightInterest.Mul(decimal.NewFromInt(int64(days)))
	net := gross.Add(adjTotal).Sub(interest)

	closed := *t
	closeDate := req.CloseDate
	closed.Status = models.StatusClosed
	closed.CloseDate = &closeDate
	closed.ClosePrice = decimal.NewNullDecimal(req.ClosePrice)
	closed.Pnl = decimal.NewNullDecimal(gross)
	closed.AdjustmentsTotal = decimal.NewNullDecimal(adjTotal)
	closed.OvernightInterestTotal = decimal.NewNullDecimal(interest)
	closed.NetProfit = decimal.NewNullDecimal(net)
	closed.WNL = Outcome(net)
	closed.ManualCurrentPrice = decimal.NullDecimal{}
	return &closed, nil
}

// Outcome tags a net result as won, lost or broke even
func Outcome(net decimal.Decimal) string {
	switch net.Sign() {
	case 1:
		return models.OutcomeWon
	case -1:
		return models.OutcomeLost
	}
	return models.OutcomeBrokeEven
}
