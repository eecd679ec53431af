// Package filter decides whether a canonical posting is relevant under a
// policy. The pipeline is an ordered conjunction of pure predicates; each is
// independently testable and Matches short-circuits on the first reject.
package filter

import (
	"strings"
	"time"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// MissingTimestampRule says what the freshness predicate does when a posting
// carries no timestamp. This is a deployment decision, not a default we pick
// silently: some boards never expose dates and would otherwise go dark.
type MissingTimestampRule string

const (
	MissingTreatAsFresh MissingTimestampRule = "fresh"
	MissingReject       MissingTimestampRule = "reject"
)

// Policy holds every keyword set and threshold the pipeline consults.
// Constructed once per run, read-only thereafter.
type Policy struct {
	TargetRoles        []string // role keywords, any-of over title+description
	ExperienceKeywords []string // entry-level markers, any-of over title+description
	AssociateTitles    []string // title-only allow-list that overrides ExperienceKeywords
	ExcludeKeywords    []string // seniority/internship markers, any-of rejects
	LocationIncludes   []string // US/remote-US/hybrid markers
	LocationExcludes   []string // explicit non-US markers, any-of rejects
	StateNames         []string // named-state fallback when no marker matched
	FreshnessWindow    time.Duration
	MissingTimestamp   MissingTimestampRule
}

// Matches runs the canonical predicate order: exclusion, experience, role,
// location, freshness. A posting proceeds only if all five pass.
func (p Policy) Matches(post model.Posting, now time.Time) bool {
	return p.PassesExclusion(post) &&
		p.PassesExperience(post) &&
		p.PassesRole(post) &&
		p.PassesLocation(post) &&
		p.PassesFreshness(post, now)
}

// PassesExclusion rejects postings whose title or description carries a
// seniority or internship marker.
func (p Policy) PassesExclusion(post model.Posting) bool {
	text := searchText(post)
	for _, kw := range p.ExcludeKeywords {
		if strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// PassesExperience accepts postings with an explicit entry-level keyword, or
// whose title matches the associate-title allow-list. The allow-list overrides
// the keyword requirement: "Software Engineer I" qualifies on title alone.
func (p Policy) PassesExperience(post model.Posting) bool {
	text := searchText(post)
	for _, kw := range p.ExperienceKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	title := strings.ToLower(post.Title)
	for _, marker := range p.AssociateTitles {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

// PassesRole accepts postings whose title or description names a target role.
func (p Policy) PassesRole(post model.Posting) bool {
	text := searchText(post)
	for _, kw := range p.TargetRoles {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// PassesLocation rejects explicit non-US locations, then accepts a US or
// remote marker, a ", XX" two-letter state code, or a named state.
func (p Policy) PassesLocation(post model.Posting) bool {
	loc := strings.ToLower(post.Location)

	for _, kw := range p.LocationExcludes {
		if strings.Contains(loc, kw) {
			return false
		}
	}
	for _, kw := range p.LocationIncludes {
		if strings.Contains(loc, kw) {
			return true
		}
	}
	if hasStateCode(loc) {
		return true
	}
	for _, state := range p.StateNames {
		if strings.Contains(loc, state) {
			return true
		}
	}
	return false
}

// PassesFreshness accepts postings younger than the freshness window. A
// missing timestamp follows the policy's MissingTimestamp rule.
func (p Policy) PassesFreshness(post model.Posting, now time.Time) bool {
	if post.PostedAt == nil {
		return p.MissingTimestamp == MissingTreatAsFresh
	}
	return now.Sub(*post.PostedAt) <= p.FreshnessWindow
}

// searchText is the lowercased haystack the keyword predicates scan.
func searchText(post model.Posting) string {
	return strings.ToLower(post.Title + " " + post.Description)
}

// hasStateCode reports whether loc (already lowercased) contains a ", XX"
// pattern where XX is a US state or DC code, e.g. "austin, tx" or
// "new york, ny, united states".
func hasStateCode(loc string) bool {
	rest := loc
	for {
		i := strings.Index(rest, ", ")
		if i < 0 {
			return false
		}
		rest = rest[i+2:]
		if len(rest) >= 2 {
			code := rest[:2]
			// The code must end the string or be followed by a separator:
			// "reston, va" yes, "boston, massachusetts" must not match "ma".
			if len(rest) == 2 || rest[2] == ',' || rest[2] == ' ' || rest[2] == ')' {
				if usStateCodes[code] {
					return true
				}
			}
		}
	}
}
