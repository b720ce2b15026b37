// Package snapshots derives the latest and most favourable prices from a
// trade's price observations.
package snapshots

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/models"
)

// LatestPrice returns the price of the most recent snapshot, or null when
// there are none
func LatestPrice(snaps []*models.Snapshot) decimal.NullDecimal {
	var latest *models.Snapshot
	for _, s := range snaps {
		if s == nil {
			continue
		}
		if latest == nil || s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	if latest == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(latest.Price)
}

// PeakPrice returns the most favourable observed price for the direction:
// the highest for Long, the lowest for Short. Null when there are none.
func PeakPrice(snaps []*models.Snapshot, tradeType string) decimal.NullDecimal {
	short := tradeType == models.TradeTypeShort

	var peak decimal.NullDecimal
	for _, s := range snaps {
		if s == nil {
			continue
		}
		switch {
		case !peak.Valid:
			peak = decimal.NewNullDecimal(s.Price)
		case short && s.Price.LessThan(peak.Decimal):
			peak.Decimal = s.Price
		case !short && s.Price.GreaterThan(peak.Decimal):
			peak.Decimal = s.Price
		}
	}
	return peak
}

// ChangeFromPeak returns the percentage move from the peak to current,
// signed so that a give-back against the position is negative. Null when
// either price is unavailable or the peak is zero.
func ChangeFromPeak(current, peak decimal.NullDecimal, tradeType string) decimal.NullDecimal {
	if !current.Valid || !peak.Valid || peak.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}

	change := current.Decimal.Sub(peak.Decimal).
		Div(peak.Decimal).
		Mul(decimal.NewFromInt(100)).
		Mul(models.Direction(tradeType)).
		Round(2)
	return decimal.NewNullDecimal(change)
}
