package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type DailyRollup interface {
	UpdateDailyAnalytics(ctx context.Context) error
}

type IdleSweeper interface {
	SweepIdle(maxIdle time.Duration) int
}

type Options struct {
	RollupSpec  string
	SweepSpec   string
	IdleTimeout time.Duration
	// RollupTimeout bounds a single rollup run.
	RollupTimeout time.Duration
}

// Scheduler runs the daily analytics rollup and the idle view sweep.
type Scheduler struct {
	cron    *cron.Cron
	rollup  DailyRollup
	sweeper IdleSweeper
	opts    Options
	log     logrus.FieldLogger
}

func NewScheduler(rollup DailyRollup, sweeper IdleSweeper, opts Options, log logrus.FieldLogger) (*Scheduler, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.RollupTimeout <= 0 {
		opts.RollupTimeout = time.Minute
	}

	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{log}),
			cron.SkipIfStillRunning(cronLogger{log}),
		)),
		rollup:  rollup,
		sweeper: sweeper,
		opts:    opts,
		log:     log,
	}

	if _, err := s.cron.AddFunc(opts.RollupSpec, s.RunRollup); err != nil {
		return nil, fmt.Errorf("schedule daily rollup %q: %w", opts.RollupSpec, err)
	}
	if _, err := s.cron.AddFunc(opts.SweepSpec, s.RunSweep); err != nil {
		return nil, fmt.Errorf("schedule view sweep %q: %w", opts.SweepSpec, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("jobs", len(s.cron.Entries())).Info("job scheduler started")
}

// Stop prevents new runs and waits for running jobs or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("job scheduler stop timed out")
	}
}

func (s *Scheduler) RunRollup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RollupTimeout)
	defer cancel()

	if err := s.rollup.UpdateDailyAnalytics(ctx); err != nil {
		s.log.WithError(err).WithField("op", "daily_rollup").Error("daily analytics rollup failed")
		return
	}
	s.log.WithField("op", "daily_rollup").Info("daily analytics refreshed")
}

func (s *Scheduler) RunSweep() {
	if n := s.sweeper.SweepIdle(s.opts.IdleTimeout); n > 0 {
		s.log.WithField("evicted", n).Info("idle views swept")
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(kv []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
