package scheduler

import (
	"context"
	"fmt"

	"github.com/trogers1052/trade-journal/internal/config"
	"github.com/trogers1052/trade-journal/internal/models"
)

// RateRefresher reloads the currency table
type RateRefresher interface {
	Refresh(ctx context.Context) error
}

// PeriodRecorder stores the rollup of the last completed period
type PeriodRecorder interface {
	RecordPreviousPeriod(ctx context.Context, interval string) (*models.PerformanceSnapshot, error)
}

// RegisterJobs adds the rate refresh and the weekly and monthly rollups
func (s *Scheduler) RegisterJobs(cfg config.Config, rates RateRefresher, perf PeriodRecorder) error {
	if err := s.NewIntervalJob("refresh-rates", rates.Refresh, cfg.Rates.RefreshInterval, true); err != nil {
		return err
	}

	if !cfg.Jobs.Enabled {
		return nil
	}

	rollup := func(interval string) TaskFn {
		return func(ctx context.Context) error {
			if _, err := perf.RecordPreviousPeriod(ctx, interval); err != nil {
				return fmt.Errorf("%s rollup: %w", interval, err)
			}
			return nil
		}
	}
	if err := s.NewCrontabJob("weekly-rollup", rollup(models.IntervalWeekly), cfg.Jobs.WeeklyRollupCron, false); err != nil {
		return err
	}
	return s.NewCrontabJob("monthly-rollup", rollup(models.IntervalMonthly), cfg.Jobs.MonthlyRollupCron, false)
}
