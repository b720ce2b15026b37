package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/models"
	"github.com/trogers1052/trade-journal/internal/portfolio"
	"go.uber.org/zap"
)

// ComputePerformance rolls up the period of the given interval that contains
// at and stores it, replacing an earlier rollup of the same period
func (j *Journal) ComputePerformance(ctx context.Context, interval string, at time.Time) (*models.PerformanceSnapshot, error) {
	period, err := portfolio.PeriodContaining(interval, at)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return j.recordPeriod(ctx, period)
}

// RecordPreviousPeriod rolls up the last completed period of interval
func (j *Journal) RecordPreviousPeriod(ctx context.Context, interval string) (*models.PerformanceSnapshot, error) {
	period, err := portfolio.PreviousPeriod(interval, j.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return j.recordPeriod(ctx, period)
}

func (j *Journal) recordPeriod(ctx context.Context, period portfolio.Period) (*models.PerformanceSnapshot, error) {
	entries, warnings, err := j.Entries(ctx)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		logger.Warn("performance rollup computed with incomplete data",
			zap.String("interval", period.Interval),
			zap.Strings("warnings", warnings))
	}

	snap := portfolio.Rollup(entries, period)
	if err := j.repo.UpsertPerformanceSnapshot(ctx, &snap); err != nil {
		return nil, err
	}

	logger.Info("performance rollup recorded",
		zap.String("interval", snap.Interval),
		zap.Time("period_start", snap.PeriodStart),
		zap.String("realised_pl", snap.RealisedPL.String()))
	return &snap, nil
}

// ListPerformance returns stored rollups. offsetWeeks > 0 limits the list to
// periods starting within that many weeks before the current week; 0 returns
// everything.
func (j *Journal) ListPerformance(ctx context.Context, offsetWeeks int) ([]*models.PerformanceSnapshot, error) {
	if offsetWeeks < 0 {
		return nil, fmt.Errorf("%w: offsetWeeks must not be negative", ErrInvalidInput)
	}
	if offsetWeeks == 0 {
		return j.repo.ListPerformanceSnapshots(ctx, nil)
	}

	week, err := portfolio.PeriodContaining(models.IntervalWeekly, j.now().UTC())
	if err != nil {
		return nil, err
	}
	since := week.Start.AddDate(0, 0, -7*offsetWeeks)
	return j.repo.ListPerformanceSnapshots(ctx, &since)
}

// CreatePerformance stores a manually entered rollup
func (j *Journal) CreatePerformance(ctx context.Context, p *models.PerformanceSnapshot) (*models.PerformanceSnapshot, error) {
	if err := validatePerformance(p); err != nil {
		return nil, err
	}
	p.ID = uuid.Nil
	if err := j.repo.UpsertPerformanceSnapshot(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePerformance overwrites a stored rollup
func (j *Journal) UpdatePerformance(ctx context.Context, id uuid.UUID, p *models.PerformanceSnapshot) (*models.PerformanceSnapshot, error) {
	if err := validatePerformance(p); err != nil {
		return nil, err
	}
	p.ID = id
	if err := j.repo.UpdatePerformanceSnapshot(ctx, p); err != nil {
		return nil, err
	}
	return j.repo.GetPerformanceSnapshot(ctx, id)
}

// DeletePerformance removes a stored rollup
func (j *Journal) DeletePerformance(ctx context.Context, id uuid.UUID) error {
	return j.repo.DeletePerformanceSnapshot(ctx, id)
}

func validatePerformance(p *models.PerformanceSnapshot) error {
	if !models.IsValidInterval(p.Interval) {
		return fmt.Errorf("%w: unknown interval %q", ErrInvalidInput, p.Interval)
	}
	if p.PeriodStart.IsZero() {
		return fmt.Errorf("%w: periodStart is required", ErrInvalidInput)
	}
	if p.PeriodEnd.IsZero() {
		period, err := portfolio.PeriodContaining(p.Interval, p.PeriodStart)
		if err != nil {
			return err
		}
		p.PeriodEnd = period.End
	}
	if !p.PeriodEnd.After(p.PeriodStart) {
		return fmt.Errorf("%w: periodEnd must be after periodStart", ErrInvalidInput)
	}
	return nil
}
