package dedup

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeStore records calls and can be made to fail per operation.
type fakeStore struct {
	mu       sync.Mutex
	loaded   map[string]struct{}
	records  []string
	failLoad bool
	failRec  bool
}

func (s *fakeStore) LoadAll() (map[string]struct{}, error) {
	if s.failLoad {
		return nil, &model.StoreError{Op: "load", Err: errors.New("boom")}
	}
	out := make(map[string]struct{}, len(s.loaded))
	for k := range s.loaded {
		out[k] = struct{}{}
	}
	return out, nil
}

func (s *fakeStore) Contains(id string) (bool, error) {
	_, ok := s.loaded[id]
	return ok, nil
}

func (s *fakeStore) Record(id string, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRec {
		return &model.StoreError{Op: "record", Err: errors.New("boom")}
	}
	s.records = append(s.records, id)
	return nil
}

func (s *fakeStore) Cleanup(olderThan time.Duration) error { return nil }

func posting(employer, title, url string) model.Posting {
	return model.Posting{Employer: employer, Title: title, URL: url}
}

func TestIdentity_Deterministic(t *testing.T) {
	a := Identity("Acme", "Software Engineer", "https://jobs.acme.com/1")
	b := Identity("Acme", "Software Engineer", "https://jobs.acme.com/1")
	if a != b {
		t.Errorf("equal triples must yield equal identities: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected fixed-width 32-char hex digest, got %d chars", len(a))
	}
}

func TestIdentity_EachFieldMatters(t *testing.T) {
	base := Identity("Acme", "Software Engineer", "https://jobs.acme.com/1")
	tests := []struct {
		name     string
		employer string
		title    string
		url      string
	}{
		{"employer changed", "Other", "Software Engineer", "https://jobs.acme.com/1"},
		{"title changed", "Acme", "Software Engineer II", "https://jobs.acme.com/1"},
		{"url changed", "Acme", "Software Engineer", "https://jobs.acme.com/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Identity(tt.employer, tt.title, tt.url) == base {
				t.Error("changing one field must change the identity")
			}
		})
	}
}

// The triple is hashed raw: a trailing slash or tracking parameter makes a
// new identity. Documented limitation, asserted here so nobody "fixes" it
// silently.
func TestIdentity_NoURLNormalization(t *testing.T) {
	plain := Identity("Acme", "Software Engineer", "https://jobs.acme.com/1")
	slash := Identity("Acme", "Software Engineer", "https://jobs.acme.com/1/")
	tracked := Identity("Acme", "Software Engineer", "https://jobs.acme.com/1?utm_source=x")
	cased := Identity("Acme", "software engineer", "https://jobs.acme.com/1")

	if plain == slash || plain == tracked || plain == cased {
		t.Error("trivially different triples are distinct identities by design")
	}
}

func TestEngine_ConfirmOncePerIdentity(t *testing.T) {
	st := &fakeStore{}
	e := NewEngine(st, discard)
	now := time.Now()

	p := posting("Acme", "Software Engineer", "https://jobs.acme.com/1")
	if !e.Confirm(p, now) {
		t.Fatal("first confirm should report new")
	}
	if e.Confirm(p, now) {
		t.Fatal("second confirm of same identity should be silent discard")
	}
	if len(st.records) != 1 {
		t.Fatalf("expected exactly one write-through, got %d", len(st.records))
	}
}

func TestEngine_SeedsFromStoreSnapshot(t *testing.T) {
	p := posting("Acme", "Software Engineer", "https://jobs.acme.com/1")
	st := &fakeStore{loaded: map[string]struct{}{PostingIdentity(p): {}}}
	e := NewEngine(st, discard)

	if e.Confirm(p, time.Now()) {
		t.Error("identity present in the loaded snapshot must not re-emit")
	}
	if len(st.records) != 0 {
		t.Errorf("already-seen identity must not be re-recorded, got %d writes", len(st.records))
	}
}

func TestEngine_WriteThroughPerIdentity(t *testing.T) {
	st := &fakeStore{}
	e := NewEngine(st, discard)
	now := time.Now()

	for i := 0; i < 3; i++ {
		p := posting("Acme", "Software Engineer", "https://jobs.acme.com/"+string(rune('1'+i)))
		e.Confirm(p, now)
	}
	if len(st.records) != 3 {
		t.Errorf("expected one write per confirmed identity, got %d", len(st.records))
	}
}

func TestEngine_DegradesOnLoadFailure(t *testing.T) {
	st := &fakeStore{failLoad: true}
	e := NewEngine(st, discard)

	if !e.Degraded() {
		t.Fatal("engine should degrade when the snapshot load fails")
	}

	// Dedup still works within the run.
	p := posting("Acme", "Software Engineer", "https://jobs.acme.com/1")
	if !e.Confirm(p, time.Now()) {
		t.Error("first confirm should still report new in degraded mode")
	}
	if e.Confirm(p, time.Now()) {
		t.Error("degraded engine must still dedup within the run")
	}
	if len(st.records) != 0 {
		t.Errorf("degraded engine must not write to the store, got %d writes", len(st.records))
	}
}

func TestEngine_DegradesOnRecordFailure(t *testing.T) {
	st := &fakeStore{failRec: true}
	e := NewEngine(st, discard)
	now := time.Now()

	a := posting("Acme", "Software Engineer", "https://jobs.acme.com/1")
	b := posting("Acme", "Data Engineer", "https://jobs.acme.com/2")

	if !e.Confirm(a, now) {
		t.Error("posting is still new even when its write-through fails")
	}
	if !e.Degraded() {
		t.Error("engine should degrade after a record failure")
	}
	if !e.Confirm(b, now) {
		t.Error("subsequent postings proceed with in-memory dedup")
	}
	if e.Confirm(a, now) {
		t.Error("in-run dedup survives degradation")
	}
}

func TestEngine_ConcurrentConfirmIsSerialized(t *testing.T) {
	st := &fakeStore{}
	e := NewEngine(st, discard)
	p := posting("Acme", "Software Engineer", "https://jobs.acme.com/1")

	const workers = 16
	var wg sync.WaitGroup
	confirmed := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			confirmed <- e.Confirm(p, time.Now())
		}()
	}
	wg.Wait()
	close(confirmed)

	news := 0
	for ok := range confirmed {
		if ok {
			news++
		}
	}
	if news != 1 {
		t.Errorf("exactly one goroutine may win the identity, got %d", news)
	}
}
