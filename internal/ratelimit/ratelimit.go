// Package ratelimit keeps the agent polite toward upstream ATS providers:
// every provider host gets its own token bucket, shared by all sources that
// resolve to it.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// HostLimiter rate-limits per ATS kind. All fetchers for the same backend
// (boards-api.greenhouse.io, api.lever.co, ...) share one bucket.
type HostLimiter struct {
	mu    sync.Mutex
	m     map[model.ATSKind]*rate.Limiter
	limit rate.Limit
	burst int
}

// NewHostLimiter creates a limiter allowing reqPerSec sustained requests with
// the given burst per ATS backend.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	return &HostLimiter{
		m:     make(map[model.ATSKind]*rate.Limiter),
		limit: rate.Limit(reqPerSec),
		burst: burst,
	}
}

func (hl *HostLimiter) limiterFor(kind model.ATSKind) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[kind]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.limit, hl.burst)
	hl.m[kind] = lim
	return lim
}

// Wait blocks until the backend's bucket allows another request, or the
// context is cancelled.
func (hl *HostLimiter) Wait(ctx context.Context, kind model.ATSKind) error {
	if err := hl.limiterFor(kind).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", kind, err)
	}
	return nil
}

// LimitedFetcher is a decorator that waits on the shared limiter before
// delegating to the wrapped fetcher.
type LimitedFetcher struct {
	inner   model.Fetcher
	limiter *HostLimiter
	kind    model.ATSKind
}

// NewLimitedFetcher wraps a fetcher with backend-level rate limiting.
// All fetchers targeting the same ATS should share the same limiter instance.
func NewLimitedFetcher(inner model.Fetcher, limiter *HostLimiter, kind model.ATSKind) *LimitedFetcher {
	return &LimitedFetcher{
		inner:   inner,
		limiter: limiter,
		kind:    kind,
	}
}

func (f *LimitedFetcher) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	if err := f.limiter.Wait(ctx, f.kind); err != nil {
		return nil, err
	}
	return f.inner.FetchPostings(ctx)
}
