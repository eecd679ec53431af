package model

import (
	"context"
	"time"
)

// ATSKind identifies which applicant tracking system a source publishes through.
type ATSKind string

const (
	ATSGreenhouse ATSKind = "greenhouse"
	ATSLever      ATSKind = "lever"
	ATSWorkday    ATSKind = "workday"
	ATSAshby      ATSKind = "ashby"
)

// Source describes one employer board to poll. Immutable, supplied by config.
type Source struct {
	Name     string  // employer name
	Kind     ATSKind // which ATS backend
	BoardRef string  // board URL or bare slug; adapters derive their token from it
}

// Posting is the canonical, ATS-agnostic job record every downstream
// component operates on.
type Posting struct {
	Employer       string
	Title          string
	Location       string     // "" when the source omits it, never unset
	Description    string     // plain text, "" when absent
	URL            string
	EmploymentType string     // lower-cased, "" when absent
	PostedAt       *time.Time // UTC instant; nil means the source gave no usable timestamp
	Source         ATSKind
}

// Fetcher retrieves postings for a single configured source.
type Fetcher interface {
	FetchPostings(ctx context.Context) ([]Posting, error)
}

// Snapshot is the last-seen record kept per identity in the seen store.
type Snapshot struct {
	Employer  string
	Title     string
	URL       string
	FirstSeen time.Time
}

// SeenStore is the durable record of previously emitted posting identities.
type SeenStore interface {
	// LoadAll returns a snapshot of every recorded identity at run start.
	LoadAll() (map[string]struct{}, error)
	Contains(id string) (bool, error)
	Record(id string, snap Snapshot) error
	Cleanup(olderThan time.Duration) error
}

// Notifier delivers a batch of newly discovered postings.
type Notifier interface {
	Notify(postings []Posting) error
}
