// Package normalize maps adapter-specific raw values into the canonical
// posting schema. All mappings are pure; bad input yields an explicit absent
// value, never an error, except for postings missing mandatory fields.
package normalize

import (
	"strings"
	"time"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// layouts tried in order by ParseTime after Z-suffix normalization.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05", // no offset, assume UTC
	"2006-01-02",          // date only, midnight UTC
}

// ParseTime parses the timestamp forms seen across ATS backends: ISO-8601
// with or without a trailing "Z", offset-less datetimes, and bare dates.
// The result is always UTC. Unparseable or empty input returns nil — absence
// is a distinct state the filter pipeline handles under policy, not an error.
func ParseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	// "2025-11-17T12:34:56Z" → explicit UTC offset, same instant.
	if strings.HasSuffix(raw, "Z") {
		raw = strings.TrimSuffix(raw, "Z") + "+00:00"
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// FromEpochMillis converts an epoch-millisecond timestamp (Lever createdAt)
// to a UTC instant. Non-positive values mean absent.
func FromEpochMillis(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

// Posting canonicalizes a posting assembled by an adapter: mandatory fields
// are enforced, optional strings are defaulted to "" so downstream predicates
// always operate on a string, the employment type is lower-cased, and any
// timestamp is pinned to UTC. A posting without a title or URL returns
// model.ErrSkipPosting and is dropped by the caller.
func Posting(p model.Posting) (model.Posting, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.URL = strings.TrimSpace(p.URL)
	if p.Title == "" || p.URL == "" {
		return model.Posting{}, model.ErrSkipPosting
	}

	p.Location = strings.TrimSpace(p.Location)
	p.Description = strings.TrimSpace(p.Description)
	p.EmploymentType = strings.ToLower(strings.TrimSpace(p.EmploymentType))

	if p.PostedAt != nil {
		utc := p.PostedAt.UTC()
		p.PostedAt = &utc
	}

	return p, nil
}
