package store

import (
	"sync"
	"time"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// MemoryStore keeps identities in process memory. Used for tests and as the
// run-local fallback when the durable store is unavailable.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]model.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]model.Snapshot)}
}

func (s *MemoryStore) LoadAll() (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.seen))
	for id := range s.seen {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *MemoryStore) Contains(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok, nil
}

func (s *MemoryStore) Record(id string, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; !ok {
		s.seen[id] = snap
	}
	return nil
}

func (s *MemoryStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, snap := range s.seen {
		if snap.FirstSeen.Before(cutoff) {
			delete(s.seen, id)
		}
	}
	return nil
}
