// Package scheduler owns the daemon loop: run the aggregation pipeline
// immediately, then again on every interval tick until the context is
// cancelled.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/harshusoma/job-alert-agent/internal/model"
	"github.com/harshusoma/job-alert-agent/internal/orchestrator"
)

// Scheduler drives repeated aggregation runs and delivers each run's batch.
type Scheduler struct {
	orch         *orchestrator.Orchestrator
	notifier     model.Notifier
	store        model.SeenStore
	interval     time.Duration
	cleanupAfter time.Duration // zero disables the per-cycle store cleanup
	logger       *slog.Logger
}

// NewScheduler creates a scheduler that runs the orchestrator at the given
// interval and hands each non-empty batch to the notifier.
func NewScheduler(
	orch *orchestrator.Orchestrator,
	notifier model.Notifier,
	store model.SeenStore,
	interval time.Duration,
	cleanupAfter time.Duration,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		orch:         orch,
		notifier:     notifier,
		store:        store,
		interval:     interval,
		cleanupAfter: cleanupAfter,
		logger:       logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful
// shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.cycle(ctx)
		}
	}
}

// cycle runs one aggregation pass and notifies. Failures are logged, never
// fatal; the next tick gets a fresh chance.
func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	res, err := s.orch.Run(ctx)
	if err != nil {
		s.logger.Error("aggregation run failed", "error", err)
		return
	}

	if len(res.Postings) > 0 {
		if err := s.notifier.Notify(res.Postings); err != nil {
			s.logger.Error("notification failed", "error", err, "postings", len(res.Postings))
		}
	}

	if s.cleanupAfter > 0 {
		if err := s.store.Cleanup(s.cleanupAfter); err != nil {
			s.logger.Warn("seen store cleanup failed", "error", err)
		}
	}
}
