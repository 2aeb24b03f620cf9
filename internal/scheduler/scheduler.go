// Package scheduler triggers pipeline runs at a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// RunFunc is one scheduled unit of work.
type RunFunc func(ctx context.Context) error

// Scheduler calls a RunFunc every interval until stopped.
// A tick buffered while a run was in progress is discarded, so an overrunning
// run is followed by the next regular tick rather than an immediate rerun.
type Scheduler struct {
	interval     time.Duration
	run          RunFunc
	runOnStartup bool
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// Config holds configuration for the scheduler.
type Config struct {
	Interval     time.Duration
	RunOnStartup bool
	Run          RunFunc
	Logger       *slog.Logger
}

// New creates a scheduler. Interval must be positive.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("scheduler interval must be positive")
	}
	if cfg.Run == nil {
		return nil, errors.New("scheduler run function is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		interval:     cfg.Interval,
		run:          cfg.Run,
		runOnStartup: cfg.RunOnStartup,
		logger:       logger,
	}, nil
}

// Start launches the schedule loop. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop(ctx)
	s.logger.Info("Scheduler started", slog.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for an in-flight run to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.runOnStartup {
		s.trigger(ctx)
		drainTick(ticker.C)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.trigger(ctx)
			drainTick(ticker.C)
		}
	}
}

func drainTick(c <-chan time.Time) {
	select {
	case <-c:
	default:
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	start := time.Now()
	if err := s.run(ctx); err != nil {
		s.logger.Error("Scheduled run failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Scheduled run finished", slog.Duration("took", time.Since(start)))
}
