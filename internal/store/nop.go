package store

import (
	"time"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// NopStore is used in dry-run mode. It never records anything, so every
// posting appears new on each run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) LoadAll() (map[string]struct{}, error)         { return map[string]struct{}{}, nil }
func (s *NopStore) Contains(id string) (bool, error)              { return false, nil }
func (s *NopStore) Record(id string, snap model.Snapshot) error   { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error         { return nil }
