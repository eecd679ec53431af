package dedup

import (
	"log/slog"
	"sync"
	"time"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// Engine owns the run-level seen set. Check-then-insert is one atomic step
// under the mutex, so concurrent callers can never double-emit an identity.
// Each newly confirmed identity is persisted immediately (write-through, one
// write per identity) so a crash after N persists never replays those N
// postings on the next run.
//
// If the store fails, the engine degrades to in-memory-only dedup for the
// remainder of the run and logs a warning once. The run stays correct within
// itself; cross-run dedup resumes when the store recovers.
type Engine struct {
	store  model.SeenStore
	logger *slog.Logger

	mu       sync.Mutex
	seen     map[string]struct{}
	degraded bool
}

// NewEngine loads the store's identity snapshot and returns a ready engine.
// A store load failure is not fatal: the engine starts degraded with an empty
// in-memory set.
func NewEngine(store model.SeenStore, logger *slog.Logger) *Engine {
	e := &Engine{
		store:  store,
		logger: logger,
		seen:   make(map[string]struct{}),
	}

	snapshot, err := store.LoadAll()
	if err != nil {
		e.degraded = true
		logger.Warn("seen store unavailable, deduplicating in memory only for this run", "error", err)
		return e
	}
	e.seen = snapshot
	if e.seen == nil {
		e.seen = make(map[string]struct{})
	}
	return e
}

// Confirm reports whether the posting is new. The first call for an identity
// returns true, records it in memory, and writes it through to the store;
// every later call returns false. Already-seen postings are discarded
// silently by the caller — not an error, not re-emitted.
func (e *Engine) Confirm(p model.Posting, now time.Time) bool {
	id := PostingIdentity(p)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.seen[id]; ok {
		return false
	}
	e.seen[id] = struct{}{}

	if e.degraded {
		return true
	}

	snap := model.Snapshot{
		Employer:  p.Employer,
		Title:     p.Title,
		URL:       p.URL,
		FirstSeen: now,
	}
	if err := e.store.Record(id, snap); err != nil {
		e.degraded = true
		e.logger.Warn("seen store write failed, deduplicating in memory only for this run", "error", err)
	}
	return true
}

// Degraded reports whether the engine has fallen back to in-memory dedup.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.degraded
}
