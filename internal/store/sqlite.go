// Package store provides seen-set persistence behind the model.SeenStore
// contract. The core never depends on the storage technology, only on this
// read/write boundary.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// SQLiteStore persists emitted posting identities, one row per identity with
// its last-seen snapshot.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the seen_postings table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_postings (
		identity   TEXT PRIMARY KEY,
		employer   TEXT NOT NULL DEFAULT '',
		title      TEXT NOT NULL DEFAULT '',
		url        TEXT NOT NULL DEFAULT '',
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_postings table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// LoadAll returns every recorded identity as the run-start snapshot.
func (s *SQLiteStore) LoadAll() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT identity FROM seen_postings")
	if err != nil {
		return nil, &model.StoreError{Op: "load", Err: err}
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &model.StoreError{Op: "load", Err: err}
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StoreError{Op: "load", Err: err}
	}
	return out, nil
}

// Contains returns true if the given identity has already been recorded.
func (s *SQLiteStore) Contains(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_postings WHERE identity = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, &model.StoreError{Op: "contains", Err: err}
	}
	return true, nil
}

// Record stores an identity with its snapshot. Re-recording an existing
// identity is a no-op.
func (s *SQLiteStore) Record(id string, snap model.Snapshot) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO seen_postings (identity, employer, title, url, first_seen) VALUES (?, ?, ?, ?, ?)",
		id, snap.Employer, snap.Title, snap.URL, snap.FirstSeen.UTC(),
	)
	if err != nil {
		return &model.StoreError{Op: "record", Err: err}
	}
	return nil
}

// Cleanup deletes identities first seen before the given age.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UTC()
	_, err := s.db.Exec("DELETE FROM seen_postings WHERE first_seen < ?", cutoff)
	if err != nil {
		return &model.StoreError{Op: "cleanup", Err: err}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
