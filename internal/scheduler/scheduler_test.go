package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/trade-journal/internal/config"
	"github.com/trogers1052/trade-journal/internal/metrics"
	"github.com/trogers1052/trade-journal/internal/models"
)

func TestIntervalJob_runsImmediately(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, s.NewIntervalJob("count", func(context.Context) error {
		runs.Add(1)
		return nil
	}, time.Hour, true))

	s.Start()
	defer func() { _ = s.Stop() }()

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestTaskWithRecover(t *testing.T) {
	assert.NotPanics(t, func() {
		taskWithRecover(func(context.Context) error { panic("boom") }, "panics")(context.Background())
	})
	assert.NotPanics(t, func() {
		taskWithRecover(func(context.Context) error { return errors.New("failed") }, "fails")(context.Background())
	})
}

func TestNewCrontabJob_rejectsBadSpec(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer func() { _ = s.Stop() }()

	require.Error(t, s.NewCrontabJob("bad", func(context.Context) error { return nil }, "not a cron", false))
}

type countingRefresher struct{ calls atomic.Int32 }

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls.Add(1)
	return nil
}

type nopRecorder struct{}

func (nopRecorder) RecordPreviousPeriod(context.Context, string) (*models.PerformanceSnapshot, error) {
	return &models.PerformanceSnapshot{}, nil
}

func TestRegisterJobs(t *testing.T) {
	cfg := config.Config{
		Rates: config.RatesConfig{RefreshInterval: time.Hour},
		Jobs: config.JobsConfig{
			Enabled:           true,
			WeeklyRollupCron:  "5 0 * * 1",
			MonthlyRollupCron: "10 0 1 * *",
		},
	}

	s, err := New()
	require.NoError(t, err)

	refresher := &countingRefresher{}
	require.NoError(t, s.RegisterJobs(cfg, refresher, nopRecorder{}))
	assert.Len(t, s.scheduler.Jobs(), 3)

	okBefore := testutil.ToFloat64(metrics.RateRefreshes.WithLabelValues("ok"))

	s.Start()
	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())

	// the refresher owns the refresh metric; the job only schedules it
	assert.Equal(t, okBefore, testutil.ToFloat64(metrics.RateRefreshes.WithLabelValues("ok")))
}
