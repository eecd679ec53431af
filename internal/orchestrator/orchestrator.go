// Package orchestrator drives one aggregation run: fetch every configured
// source on a bounded worker pool, normalize and filter inside the workers,
// then deduplicate sequentially in source-configuration order so the emitted
// batch has a stable, reproducible order.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harshusoma/job-alert-agent/internal/dedup"
	"github.com/harshusoma/job-alert-agent/internal/filter"
	"github.com/harshusoma/job-alert-agent/internal/model"
)

// SourceFetcher pairs a configured source with its (possibly decorated)
// fetcher. Order of the slice handed to the orchestrator is emission order.
type SourceFetcher struct {
	Source  model.Source
	Fetcher model.Fetcher
}

// SourceStats summarizes one source's contribution to a run.
type SourceStats struct {
	Source  string
	Kind    model.ATSKind
	Fetched int  // raw postings returned by the adapter
	Matched int  // survived the filter pipeline
	New     int  // confirmed new by the dedup engine
	Failed  bool // fetch failed; counts above are zero
}

// Result is the outcome of a run: the ordered batch of newly discovered
// postings plus per-source accounting.
type Result struct {
	Postings []model.Posting
	Stats    []SourceStats
}

// Orchestrator owns the run-level pipeline wiring. Construct one per process;
// Run may be called repeatedly (the scheduler does).
type Orchestrator struct {
	sources       []SourceFetcher
	policy        filter.Policy
	engine        *dedup.Engine
	logger        *slog.Logger
	concurrency   int
	sourceTimeout time.Duration
}

// New creates an orchestrator. concurrency bounds the number of sources
// fetched in parallel; sourceTimeout caps each source's fetch (zero means no
// per-source deadline beyond the run context).
func New(
	sources []SourceFetcher,
	policy filter.Policy,
	engine *dedup.Engine,
	logger *slog.Logger,
	concurrency int,
	sourceTimeout time.Duration,
) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{
		sources:       sources,
		policy:        policy,
		engine:        engine,
		logger:        logger,
		concurrency:   concurrency,
		sourceTimeout: sourceTimeout,
	}
}

// Run executes one aggregation cycle. A failed source is logged and treated
// as zero postings; it never aborts the run. A run where every source fails
// returns a valid empty batch and a nil error.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	now := time.Now().UTC()

	// Matched postings per source, indexed by configuration order so the
	// sequential dedup pass below preserves it regardless of which worker
	// finished first.
	matched := make([][]model.Posting, len(o.sources))
	stats := make([]SourceStats, len(o.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, sf := range o.sources {
		g.Go(func() error {
			fctx := gctx
			if o.sourceTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(gctx, o.sourceTimeout)
				defer cancel()
			}

			st := SourceStats{Source: sf.Source.Name, Kind: sf.Source.Kind}

			postings, err := sf.Fetcher.FetchPostings(fctx)
			if err != nil {
				ferr := &model.FetchError{Source: sf.Source.Name, Kind: sf.Source.Kind, Err: err}
				o.logger.Error("source fetch failed, continuing without it",
					"source", sf.Source.Name,
					"ats", sf.Source.Kind,
					"error", ferr,
				)
				st.Failed = true
				stats[i] = st
				return nil
			}
			st.Fetched = len(postings)

			var keep []model.Posting
			for _, p := range postings {
				if o.policy.Matches(p, now) {
					keep = append(keep, p)
				}
			}
			st.Matched = len(keep)

			matched[i] = keep
			stats[i] = st
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Workers always return nil; only context errors can surface here.
		return Result{}, err
	}

	// Sequential dedup in source-configuration order. The engine itself is
	// safe for concurrent use, but a serial pass here keeps emission order
	// deterministic for a given seen-store state.
	var batch []model.Posting
	for i := range o.sources {
		for _, p := range matched[i] {
			if o.engine.Confirm(p, now) {
				batch = append(batch, p)
				stats[i].New++
			}
		}
		o.logger.Info("source processed",
			"source", stats[i].Source,
			"ats", stats[i].Kind,
			"fetched", stats[i].Fetched,
			"matched", stats[i].Matched,
			"new", stats[i].New,
			"failed", stats[i].Failed,
		)
	}

	o.logger.Info("run complete",
		"sources", len(o.sources),
		"new_postings", len(batch),
		"dedup_degraded", o.engine.Degraded(),
	)

	return Result{Postings: batch, Stats: stats}, nil
}
