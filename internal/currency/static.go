package currency

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/models"
)

// DefaultTable returns the built-in point-in-time rates
func DefaultTable() Table {
	return Table{
		models.CurrencyGBP: decimal.NewFromInt(1),
		models.CurrencyGBX: decimal.RequireFromString("0.01"),
		models.CurrencyUSD: decimal.RequireFromString("0.82467425"),
		models.CurrencyEUR: decimal.RequireFromString("0.8719"),
		models.CurrencyCHF: decimal.RequireFromString("0.9115"),
	}
}

// StaticSource serves a fixed table
type StaticSource struct {
	table Table
}

// NewStaticSource returns the default table with overrides applied on top
func NewStaticSource(overrides map[string]decimal.Decimal) *StaticSource {
	table := DefaultTable()
	for code, rate := range overrides {
		table[code] = rate
	}
	pinSterling(table)
	return &StaticSource{table: table}
}

// Fetch returns a copy of the static table
func (s *StaticSource) Fetch(ctx context.Context) (Table, error) {
	return s.table.Clone(), nil
}

// pinSterling keeps GBP and pence fixed regardless of what a source reports
func pinSterling(t Table) {
	t[models.CurrencyGBP] = decimal.NewFromInt(1)
	t[models.CurrencyGBX] = decimal.RequireFromString("0.01")
}
