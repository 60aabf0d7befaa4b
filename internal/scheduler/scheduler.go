// Package scheduler runs the reconciliation job on a timer: once on start,
// every configured interval, and at midnight business time.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mascotico-api/internal/infra/runstatus"
	"github.com/BruksfildServices01/mascotico-api/internal/metrics"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
	"github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
)

const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerMidnight = "midnight"
	TriggerManual   = "manual"
)

const midnightSpec = "0 0 * * *"

type Reconciler interface {
	Execute(ctx context.Context) (appointment.ReconcileResult, error)
}

type Options struct {
	Interval time.Duration
	Location *time.Location

	// Timeout bounds a single run; zero means no limit.
	Timeout time.Duration
}

type Scheduler struct {
	reconciler Reconciler
	runs       runstatus.Store
	metrics    *metrics.Metrics
	log        *zap.Logger
	clock      timezone.Clock
	opts       Options

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
}

func New(
	reconciler Reconciler,
	runs runstatus.Store,
	m *metrics.Metrics,
	log *zap.Logger,
	clock timezone.Clock,
	opts Options,
) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Scheduler{
		reconciler: reconciler,
		runs:       runs,
		metrics:    m,
		log:        log.Named("scheduler"),
		clock:      clock,
		opts:       opts,
	}
}

// Start runs the job once, synchronously, and then arms the timers.
// A failing first run is logged and does not prevent the timers.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	_, _ = s.run(ctx, TriggerStartup)

	cl := cronLogger{log: s.log.Sugar()}
	c := cron.New(
		cron.WithLocation(s.opts.Location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.opts.Interval), s.job(TriggerInterval)); err != nil {
		return fmt.Errorf("schedule interval run: %w", err)
	}
	if _, err := c.AddFunc(midnightSpec, s.job(TriggerMidnight)); err != nil {
		return fmt.Errorf("schedule midnight run: %w", err)
	}

	c.Start()
	s.cron = c
	s.started = true

	s.log.Info("scheduler started",
		zap.Duration("interval", s.opts.Interval),
		zap.String("timezone", s.opts.Location.String()),
	)
	return nil
}

// Stop cancels the timers and waits for a run in progress, or until ctx
// is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.started = false
	s.mu.Unlock()

	if c == nil {
		return
	}

	select {
	case <-c.Stop().Done():
		s.log.Info("scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out", zap.Error(ctx.Err()))
	}
}

// RunNow executes the job immediately, for the manual endpoint.
func (s *Scheduler) RunNow(ctx context.Context) (appointment.ReconcileResult, error) {
	return s.run(ctx, TriggerManual)
}

// LastRun returns the most recent recorded run, or nil.
func (s *Scheduler) LastRun(ctx context.Context) (*runstatus.Run, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.Last(ctx)
}

func (s *Scheduler) job(trigger string) func() {
	return func() {
		_, _ = s.run(context.Background(), trigger)
	}
}

func (s *Scheduler) run(ctx context.Context, trigger string) (appointment.ReconcileResult, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	began := time.Now()
	run := runstatus.Run{Trigger: trigger, StartedAt: s.clock.Now()}

	res, err := s.reconciler.Execute(ctx)

	run.FinishedAt = s.clock.Now()
	run.UpdatedCount = res.UpdatedCount
	s.metrics.ReconcileRun(trigger, res.UpdatedCount, err, time.Since(began))

	if err != nil {
		run.Error = err.Error()
		s.log.Error("reconcile failed",
			zap.String("trigger", trigger),
			zap.Error(err),
		)
	} else {
		s.log.Info("reconcile finished",
			zap.String("trigger", trigger),
			zap.Int64("updated_count", res.UpdatedCount),
		)
	}

	s.record(run)
	return res, err
}

func (s *Scheduler) record(run runstatus.Run) {
	if s.runs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.runs.Save(ctx, run); err != nil {
		s.log.Warn("could not record reconcile run", zap.Error(err))
	}
}

// ======================================================
// cron.Logger over zap
// ======================================================

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
