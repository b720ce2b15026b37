package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/models"
)

// Period is a half-open reporting window [Start, End)
type Period struct {
	Interval string
	Start    time.Time
	End      time.Time
}

// Contains reports whether t falls within the period
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// PeriodContaining returns the week (starting Monday) or calendar month that
// contains t, in t's location
func PeriodContaining(interval string, t time.Time) (Period, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	switch interval {
	case models.IntervalWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Period{Interval: interval, Start: start, End: start.AddDate(0, 0, 7)}, nil
	case models.IntervalMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Period{Interval: interval, Start: start, End: start.AddDate(0, 1, 0)}, nil
	}
	return Period{}, fmt.Errorf("unknown interval %q", interval)
}

// PreviousPeriod returns the last completed period before the one holding now
func PreviousPeriod(interval string, now time.Time) (Period, error) {
	current, err := PeriodContaining(interval, now)
	if err != nil {
		return Period{}, err
	}
	return PeriodContaining(interval, current.Start.Add(-time.Nanosecond))
}

// Rollup totals realised P&L of trades closed within the period and the
// unrealised P&L of trades still open, split by real and paper accounts
func Rollup(entries []Entry, period Period) models.PerformanceSnapshot {
	snap := models.PerformanceSnapshot{
		Interval:          period.Interval,
		PeriodStart:       period.Start,
		PeriodEnd:         period.End,
		RealisedPL:        decimal.Zero,
		UnrealisedPL:      decimal.Zero,
		PaperRealisedPL:   decimal.Zero,
		PaperUnrealisedPL: decimal.Zero,
	}

	for _, e := range entries {
		if e.Trade == nil || e.Economics == nil {
			continue
		}
		paper := e.Trade.IsPaper()
		net := e.Economics.NetProfit

		switch e.Trade.Status {
		case models.StatusClosed:
			if e.Trade.CloseDate == nil || !period.Contains(*e.Trade.CloseDate) {
				continue
			}
			if paper {
				snap.PaperRealisedPL = snap.PaperRealisedPL.Add(net)
			} else {
				snap.RealisedPL = snap.RealisedPL.Add(net)
			}
		case models.StatusOpen:
			if paper {
				snap.PaperUnrealisedPL = snap.PaperUnrealisedPL.Add(net)
			} else {
				snap.UnrealisedPL = snap.UnrealisedPL.Add(net)
			}
		}
	}
	return snap
}
