package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func snap(employer string) model.Snapshot {
	return model.Snapshot{
		Employer:  employer,
		Title:     "Software Engineer",
		URL:       "https://jobs.example.com/1",
		FirstSeen: time.Now(),
	}
}

func TestRecordThenContains(t *testing.T) {
	s := newTestStore(t)

	if err := s.Record("id-123", snap("Acme")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	seen, err := s.Contains("id-123")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !seen {
		t.Error("expected Contains to return true after Record")
	}
}

func TestContainsUnknownReturnsFalse(t *testing.T) {
	s := newTestStore(t)

	seen, err := s.Contains("does-not-exist")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if seen {
		t.Error("expected Contains to return false for unknown identity")
	}
}

func TestRecordIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Record("id-456", snap("Acme")); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := s.Record("id-456", snap("Other")); err != nil {
		t.Fatalf("second Record (duplicate): %v", err)
	}

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected one identity after duplicate Record, got %d", len(all))
	}
}

func TestLoadAllSnapshot(t *testing.T) {
	s := newTestStore(t)

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		if err := s.Record(id, snap("Acme")); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != len(ids) {
		t.Fatalf("expected %d identities, got %d", len(ids), len(all))
	}
	for _, id := range ids {
		if _, ok := all[id]; !ok {
			t.Errorf("identity %s missing from snapshot", id)
		}
	}
}

func TestLoadAllEmpty(t *testing.T) {
	s := newTestStore(t)

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty snapshot from a fresh store, got %d entries", len(all))
	}
}

func TestCleanup(t *testing.T) {
	s := newTestStore(t)

	old := model.Snapshot{Employer: "Acme", FirstSeen: time.Now().Add(-72 * time.Hour)}
	if err := s.Record("old-id", old); err != nil {
		t.Fatalf("Record old: %v", err)
	}
	if err := s.Record("new-id", snap("Acme")); err != nil {
		t.Fatalf("Record new: %v", err)
	}

	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if _, ok := all["old-id"]; ok {
		t.Error("expected old identity to be purged")
	}
	if _, ok := all["new-id"]; !ok {
		t.Error("expected recent identity to survive cleanup")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s1, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s1.Record("persistent-id", snap("Acme")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	s1.Close()

	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	seen, err := s2.Contains("persistent-id")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !seen {
		t.Error("identity should survive a store reopen")
	}
}
