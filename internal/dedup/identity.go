// Package dedup guarantees at-most-once emission per distinct posting. It
// computes a stable identity per posting and gates emission on a seen store.
package dedup

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// Identity derives the fixed-width dedup key for a posting: the md5 hex digest
// of the raw "employer|title|url" triple. The triple is deliberately not
// normalized — case or query-string drift in the URL produces a new identity,
// so a republished posting with a tracking parameter re-notifies. Known sharp
// edge, kept on purpose.
func Identity(employer, title, url string) string {
	sum := md5.Sum([]byte(employer + "|" + title + "|" + url))
	return hex.EncodeToString(sum[:])
}

// PostingIdentity is Identity applied to a canonical posting.
func PostingIdentity(p model.Posting) string {
	return Identity(p.Employer, p.Title, p.URL)
}
