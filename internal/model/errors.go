package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrSkipPosting marks a raw posting that lacks mandatory fields (title or
// URL). The posting is dropped; its siblings proceed.
var ErrSkipPosting = errors.New("posting missing mandatory fields")

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// FetchError is the adapter-layer isolation boundary: any network, status, or
// parse failure for one source surfaces as a FetchError, and the orchestrator
// treats that source as having returned zero postings this run.
type FetchError struct {
	Source string
	Kind   ATSKind
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s (%s): %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StoreError signals a seen-store read/write failure. The dedup engine
// recovers by degrading to an ephemeral in-memory seen set for the rest of
// the run.
type StoreError struct {
	Op  string // "load", "contains", "record", "cleanup"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("seen store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
