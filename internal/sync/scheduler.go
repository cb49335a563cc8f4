package sync

import (
	"context"
	"log/slog"
	"time"
)

// PassRunner executes one sync pass. Satisfied by *Engine.
type PassRunner interface {
	Run(ctx context.Context) (*PassReport, error)
}

// Scheduler drives the engine once or forever on a fixed interval.
type Scheduler struct {
	runner   PassRunner
	interval time.Duration // negative = back-to-back passes, no pause
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler. A negative interval means no pause
// between passes.
func NewScheduler(runner PassRunner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// RunOnce executes one pass and reports its wall-clock duration.
func (s *Scheduler) RunOnce(ctx context.Context) (*PassReport, error) {
	s.logger.Info("starting sync job")

	start := time.Now()

	report, err := s.runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sync job finished", slog.Duration("took", time.Since(start)))

	return report, nil
}

// RunForever loops RunOnce indefinitely, pausing for the configured
// interval between passes when it is non-negative. A pass fault is fatal
// to the loop and propagates to the caller; restart and backoff policy
// belong to the call site (or the process supervisor), not here.
func (s *Scheduler) RunForever(ctx context.Context) error {
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			return err
		}

		if s.interval < 0 {
			continue
		}

		s.logger.Info("resting between passes", slog.Duration("interval", s.interval))

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
