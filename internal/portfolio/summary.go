package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/economics"
	"github.com/trogers1052/trade-journal/internal/models"
)

// Entry pairs a trade with its computed economics. Economics is nil when
// none could be computed.
type Entry struct {
	Trade     *models.Trade        `json:"trade"`
	Economics *economics.Economics `json:"economics,omitempty"`
}

// Summary holds the dashboard headline figures
type Summary struct {
	TotalTrades       int             `json:"totalTrades"`
	OpenPositions     int             `json:"openPositions"`
	TotalPL           decimal.Decimal `json:"totalPL"`
	WinLossRatio      Ratio           `json:"winLossRatio"`
	Won               int             `json:"won"`
	Lost              int             `json:"lost"`
	PricesUnavailable int             `json:"pricesUnavailable"`
}

// Filter returns the entries whose trades match state
func Filter(entries []Entry, state models.DashboardFilterState, now time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Trade != nil && Matches(e.Trade, state, now) {
			out = append(out, e)
		}
	}
	return out
}

// Summarize filters entries and folds them into dashboard figures. Entries
// without economics count as trades but add nothing to the P&L total.
func Summarize(entries []Entry, state models.DashboardFilterState, now time.Time) Summary {
	return Totals(Filter(entries, state, now))
}

// Totals folds already-filtered entries into dashboard figures
func Totals(entries []Entry) Summary {
	s := Summary{TotalPL: decimal.Zero}

	for _, e := range entries {
		s.TotalTrades++
		if e.Trade.Status == models.StatusOpen {
			s.OpenPositions++
		}

		switch e.Trade.WNL {
		case models.OutcomeWon:
			s.Won++
		case models.OutcomeLost:
			s.Lost++
		}

		if e.Economics == nil {
			continue
		}
		if e.Trade.Status == models.StatusOpen && !e.Economics.PriceAvailable {
			s.PricesUnavailable++
		}
		s.TotalPL = s.TotalPL.Add(e.Economics.NetProfit)
	}

	s.WinLossRatio = WinLossRatio(s.Won, s.Lost)
	return s
}
