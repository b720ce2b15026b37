package currency

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/metrics"
	"go.uber.org/zap"
)

// Table maps a currency code to the GBP value of one unit of it
type Table map[string]decimal.Decimal

// Clone returns an independent copy of the table
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Source supplies a rate table
type Source interface {
	Fetch(ctx context.Context) (Table, error)
}

// Converter answers rate lookups from the most recently loaded table. Lookups
// never fail: unknown codes are treated as GBP.
type Converter struct {
	mu     sync.RWMutex
	table  Table
	source Source
}

// NewConverter creates a converter seeded with the default table. Call
// Refresh to load rates from source.
func NewConverter(source Source) *Converter {
	return &Converter{
		table:  DefaultTable(),
		source: source,
	}
}

// RateToGBP returns the multiplier converting one unit of code into GBP.
// Unknown codes fall back to 1 and are logged and counted.
func (c *Converter) RateToGBP(code string) decimal.Decimal {
	c.mu.RLock()
	rate, ok := c.table[code]
	c.mu.RUnlock()

	if !ok {
		logger.Warn("unknown currency code, treating as GBP", zap.String("currency", code))
		metrics.RecordUnknownCurrency(code)
		return decimal.NewFromInt(1)
	}
	return rate
}

// ToGBP converts amount quoted in code into GBP
func (c *Converter) ToGBP(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Mul(c.RateToGBP(code))
}

// Rates returns a copy of the current table
func (c *Converter) Rates() Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table.Clone()
}

// Refresh overlays a freshly fetched table on the current one, so codes the
// source omits keep their previous rate. On failure the previous table stays
// in place.
func (c *Converter) Refresh(ctx context.Context) error {
	if c.source == nil {
		return nil
	}

	table, err := c.source.Fetch(ctx)
	if err == nil && len(table) == 0 {
		err = errors.New("empty rate table")
	}
	if err != nil {
		metrics.RecordRateRefresh(false)
		return fmt.Errorf("failed to refresh currency rates: %w", err)
	}

	c.mu.Lock()
	merged := c.table.Clone()
	for code, rate := range table {
		merged[code] = rate
	}
	c.table = merged
	c.mu.Unlock()

	metrics.RecordRateRefresh(true)
	logger.Debug("currency rates refreshed", zap.Int("currencies", len(table)))
	return nil
}
