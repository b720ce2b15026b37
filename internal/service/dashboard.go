package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/economics"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/models"
	"github.com/trogers1052/trade-journal/internal/portfolio"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dashboard is the filtered trade list with its headline figures. Warnings
// name data that could not be loaded; the figures exclude it.
type Dashboard struct {
	Filter   models.DashboardFilterState `json:"filter"`
	Summary  portfolio.Summary           `json:"summary"`
	Rows     []portfolio.Entry           `json:"rows"`
	Warnings []string                    `json:"warnings,omitempty"`
}

// Dashboard recomputes every trade's economics and summarises those that
// match filter
func (j *Journal) Dashboard(ctx context.Context, filter models.DashboardFilterState) (*Dashboard, error) {
	filter.Normalize()

	entries, warnings, err := j.Entries(ctx)
	if err != nil {
		return nil, err
	}

	rows := portfolio.Filter(entries, filter, j.now())
	return &Dashboard{
		Filter:   filter,
		Summary:  portfolio.Totals(rows),
		Rows:     rows,
		Warnings: warnings,
	}, nil
}

// Entries loads all trades with their adjustments and latest prices and
// computes economics for each. Only a failure to load trades is fatal.
func (j *Journal) Entries(ctx context.Context) ([]portfolio.Entry, []string, error) {
	var (
		trades      []*models.Trade
		adjustments map[uuid.UUID][]*models.Adjustment
		latest      map[uuid.UUID]*models.Snapshot
		adjErr      error
		snapErr     error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trades, err = j.repo.GetAllTrades(gctx)
		return err
	})
	g.Go(func() error {
		adjustments, adjErr = j.repo.GetAllAdjustments(gctx)
		return nil
	})
	g.Go(func() error {
		latest, snapErr = j.repo.GetLatestSnapshotsForOpenTrades(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load trades: %w", err)
	}

	var warnings []string
	if adjErr != nil {
		logger.Warn("adjustments unavailable, treating as empty", zap.Error(adjErr))
		warnings = append(warnings, "adjustments could not be loaded")
	}
	if snapErr != nil {
		logger.Warn("price snapshots unavailable", zap.Error(snapErr))
		warnings = append(warnings, "price snapshots could not be loaded")
	}

	now := j.now()
	entries := make([]portfolio.Entry, 0, len(trades))
	for _, t := range trades {
		entry := portfolio.Entry{Trade: t}

		price := decimal.NullDecimal{}
		if s, ok := latest[t.ID]; ok {
			price = decimal.NewNullDecimal(s.Price)
		}

		econ, err := j.profit.Compute(t, adjustments[t.ID], price, now)
		switch {
		case err == nil:
			entry.Economics = &econ
		case errors.Is(err, economics.ErrNotAPosition):
		default:
			logger.Warn("skipping trade economics", zap.String("trade_id", t.ID.String()), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("trade %s %s: %v", t.Ticker, t.ID, err))
		}
		entries = append(entries, entry)
	}
	return entries, warnings, nil
}
