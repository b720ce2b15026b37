package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reporting interval constants
const (
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
)

// PerformanceSnapshot is a rollup of realised and unrealised P&L for one
// reporting period, split by real and paper accounts
type PerformanceSnapshot struct {
	ID                uuid.UUID       `json:"id"`
	Interval          string          `json:"interval"`
	PeriodStart       time.Time       `json:"periodStart"`
	PeriodEnd         time.Time       `json:"periodEnd"`
	RealisedPL        decimal.Decimal `json:"realisedPL"`
	UnrealisedPL      decimal.Decimal `json:"unrealisedPL"`
	PaperRealisedPL   decimal.Decimal `json:"paperRealisedPL"`
	PaperUnrealisedPL decimal.Decimal `json:"paperUnRealisedPL"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// IsValidInterval reports whether interval is a known reporting interval
func IsValidInterval(interval string) bool {
	return interval == IntervalWeekly || interval == IntervalMonthly
}
