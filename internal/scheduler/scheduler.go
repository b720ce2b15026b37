package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/trogers1052/trade-journal/internal/logger"
	"go.uber.org/zap"
)

// TaskFn is a scheduled unit of work
type TaskFn func(ctx context.Context) error

// Scheduler runs recurring jobs. A job never overlaps itself; a run that is
// still going when the next is due pushes the next one back.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// New creates a stopped scheduler
func New(opts ...gocron.SchedulerOption) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: scheduler}, nil
}

// Start begins running registered jobs
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// NewIntervalJob runs fn every interval
func (s *Scheduler) NewIntervalJob(name string, fn TaskFn, interval time.Duration, startImmediately bool) error {
	return s.createJob(gocron.DurationJob(interval), name, fn, startImmediately)
}

// NewCrontabJob runs fn on a five-field cron schedule
func (s *Scheduler) NewCrontabJob(name string, fn TaskFn, crontab string, startImmediately bool) error {
	return s.createJob(gocron.CronJob(crontab, false), name, fn, startImmediately)
}

func (s *Scheduler) createJob(definition gocron.JobDefinition, name string, fn TaskFn, startImmediately bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	if _, err := s.scheduler.NewJob(definition, gocron.NewTask(taskWithRecover(fn, name)), opts...); err != nil {
		return fmt.Errorf("failed to create job %s: %w", name, err)
	}
	return nil
}

func taskWithRecover(fn TaskFn, name string) func(ctx context.Context) {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered in scheduled job",
					zap.String("job", name),
					zap.Any("panic", r),
					zap.String("stacktrace", string(debug.Stack())))
			}
		}()

		start := time.Now()
		logger.Debug("job start", zap.String("job", name))

		if err := fn(ctx); err != nil {
			logger.Error("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		logger.Info("job completed", zap.String("job", name), zap.Duration("took", time.Since(start)))
	}
}
