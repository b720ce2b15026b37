package portfolio

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const infiniteLabel = "infinite"

// Ratio is a win/loss ratio that may be infinite when there are wins and no
// losses
type Ratio struct {
	Value    decimal.Decimal
	Infinite bool
}

// WinLossRatio divides won by lost. No losses with at least one win is
// Infinite; no outcomes at all is zero.
func WinLossRatio(won, lost int) Ratio {
	if lost == 0 {
		if won > 0 {
			return Ratio{Infinite: true}
		}
		return Ratio{Value: decimal.Zero}
	}
	return Ratio{
		Value: decimal.NewFromInt(int64(won)).DivRound(decimal.NewFromInt(int64(lost)), 2),
	}
}

// String renders the ratio for display
func (r Ratio) String() string {
	if r.Infinite {
		return infiniteLabel
	}
	return r.Value.String()
}

// MarshalJSON encodes the ratio as a number, or "infinite"
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.Infinite {
		return json.Marshal(infiniteLabel)
	}
	return []byte(r.Value.String()), nil
}

// UnmarshalJSON accepts a number or "infinite"
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil && label == infiniteLabel {
		*r = Ratio{Infinite: true}
		return nil
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = Ratio{Value: v}
	return nil
}
