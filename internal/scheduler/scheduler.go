// Package scheduler runs the periodic metrics snapshot pass.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/updawg/Fund-Manager-Backend/internal/service"
)

// SnapshotRunner records the day's metrics snapshot for every active fund.
type SnapshotRunner interface {
	SnapshotAll(ctx context.Context, date time.Time) (service.SnapshotSummary, error)
}

// Scheduler triggers SnapshotAll on a cron schedule evaluated in UTC.
// A failed pass is logged and the schedule carries on.
type Scheduler struct {
	cron   *cron.Cron
	runner SnapshotRunner
	logger zerolog.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler for spec, a standard five field cron expression or
// a descriptor such as "@daily". An empty schedule yields a disabled scheduler.
func New(spec string, runner SnapshotRunner, logger zerolog.Logger) (*Scheduler, error) {
	logger = logger.With().Str("component", "scheduler").Logger()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		runner: runner,
		logger: logger,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
	if spec == "" {
		return s, nil
	}

	cl := cronLogger{logger: logger}
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(spec, func() { s.Run(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", spec, err)
	}
	return s, nil
}

// Enabled reports whether a schedule is configured.
func (s *Scheduler) Enabled() bool {
	return s.cron != nil
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	if s.cron == nil {
		s.logger.Info().Msg("snapshot scheduler disabled")
		return
	}
	s.cron.Start()
	s.logger.Info().Time("next", s.Next()).Msg("snapshot scheduler started")
}

// Next returns the next scheduled run, zero when disabled or not started.
func (s *Scheduler) Next() time.Time {
	if s.cron == nil {
		return time.Time{}
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop halts the schedule, cancels a running pass and waits for it to return
// or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	if s.cron == nil {
		return nil
	}

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("snapshot scheduler did not stop: %w", ctx.Err())
	}
}

// Run performs one snapshot pass for the current UTC day.
func (s *Scheduler) Run(ctx context.Context) {
	date := s.now().UTC()
	started := time.Now()

	summary, err := s.runner.SnapshotAll(ctx, date)

	event := s.logger.Info()
	if err != nil {
		event = s.logger.Error().Err(err)
	}
	event.
		Str("date", date.Format(time.DateOnly)).
		Int("recorded", summary.Recorded).
		Int("skipped", summary.Skipped).
		Int("failed", len(summary.Failed)).
		Dur("duration", time.Since(started)).
		Msg("scheduled snapshot pass")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
