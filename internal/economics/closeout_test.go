package economics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/trade-journal/internal/models"
)

func TestCloseOut_computesFrozenAggregates(t *testing.T) {
	trade := openTrade(models.TradeTypeLong)
	trade.OvernightInterest = d("0.25")
	trade.ManualCurrentPrice = nd("108")
	adjustments := []*models.Adjustment{{Amount: d("-5")}, {Amount: d("12")}}

	closed, err := newCalc().CloseOut(trade, CloseRequest{ClosePrice: d("115"), CloseDate: now}, adjustments)
	require.NoError(t, err)

	assert.Equal(t, models.StatusClosed, closed.Status)
	assert.True(t, closed.Pnl.Decimal.Equal(d("150")))
	assert.True(t, closed.AdjustmentsTotal.Decimal.Equal(d("7")))
	assert.True(t, closed.OvernightInterestTotal.Decimal.Equal(d("2.5")))
	assert.True(t, closed.NetProfit.Decimal.Equal(d("154.5")))
	assert.Equal(t, models.OutcomeWon, closed.WNL)
	assert.True(t, closed.HasClosedFields())
	assert.False(t, closed.ManualCurrentPrice.Valid)

	// original is untouched
	assert.Equal(t, models.StatusOpen, trade.Status)
	assert.False(t, trade.NetProfit.Valid)
}

func TestCloseOut_shortLoss(t *testing.T) {
	trade := openTrade(models.TradeTypeShort)

	closed, err := newCalc().CloseOut(trade, CloseRequest{ClosePrice: d("110"), CloseDate: now}, nil)
	require.NoError(t, err)
	assert.True(t, closed.Pnl.Decimal.Equal(d("-100")))
	assert.Equal(t, models.OutcomeLost, closed.WNL)
}

func TestCloseOut_pnlOverride(t *testing.T) {
	trade := openTrade(models.TradeTypeLong)

	closed, err := newCalc().CloseOut(trade, CloseRequest{ClosePrice: d("110"), CloseDate: now, Pnl: nd("0")}, nil)
	require.NoError(t, err)
	assert.True(t, closed.Pnl.Decimal.IsZero())
	assert.Equal(t, models.OutcomeBrokeEven, closed.WNL)
}

func TestCloseOut_rejections(t *testing.T) {
	calc := newCalc()

	t.Run("already closed", func(t *testing.T) {
		trade := openTrade(models.TradeTypeLong)
		trade.Status = models.StatusClosed
		_, err := calc.CloseOut(trade, CloseRequest{ClosePrice: d("1"), CloseDate: now}, nil)
		require.ErrorIs(t, err, ErrAlreadyClosed)
	})

	t.Run("non-positive close price", func(t *testing.T) {
		_, err := calc.CloseOut(openTrade(models.TradeTypeLong), CloseRequest{ClosePrice: decimal.Zero, CloseDate: now}, nil)
		require.ErrorIs(t, err, models.ErrInvalidTrade)
	})

	t.Run("missing close date", func(t *testing.T) {
		_, err := calc.CloseOut(openTrade(models.TradeTypeLong), CloseRequest{ClosePrice: d("1")}, nil)
		require.ErrorIs(t, err, models.ErrInvalidTrade)
	})
}

func TestCloseOut_consideringCanClose(t *testing.T) {
	trade := openTrade(models.TradeTypeLong)
	trade.Status = models.StatusConsidering

	closed, err := newCalc().CloseOut(trade, CloseRequest{ClosePrice: d("100"), CloseDate: now}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, closed.Status)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, models.OutcomeWon, Outcome(d("0.01")))
	assert.Equal(t, models.OutcomeLost, Outcome(d("-0.01")))
	assert.Equal(t, models.OutcomeBrokeEven, Outcome(decimal.Zero))
}
