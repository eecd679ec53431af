package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/harshusoma/job-alert-agent/internal/model"
	"github.com/harshusoma/job-alert-agent/internal/normalize"
)

const (
	workdayTenantHost = "myworkdayjobs.com"
	workdayPageSize   = 50
)

// workdaySearchRequest is the read-only search POST body: an empty search
// returns every listed job.
type workdaySearchRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

// workdaySearchResponse tolerates both response shapes tenants serve.
type workdaySearchResponse struct {
	JobPostings             []workdayPosting `json:"jobPostings"`
	JobPostingsSearchResult struct {
		JobPostings []workdayPosting `json:"jobPostings"`
	} `json:"jobPostingsSearchResult"`
}

type workdayPosting struct {
	Title                 string       `json:"title"`
	TitlePlainText        string       `json:"titlePlainText"`
	LocationsText         string       `json:"locationsText"`
	Locations             []string     `json:"locations"`
	ExternalPath          string       `json:"externalPath"`
	ExternalURL           string       `json:"externalUrl"`
	JobPostingExternalURL string       `json:"jobPostingExternalUrl"`
	PostedOn              workdayDate  `json:"postedOn"`
	PostedDate            workdayDate  `json:"postedDate"`
	PostedOnDate          workdayDate  `json:"postedOnDate"`
	StartDate             workdayDate  `json:"startDate"`
}

// workdayDate tolerates the date shapes Workday varies by tenant: a plain
// string, or an object carrying the value under "value", "date", or
// "iso8601".
type workdayDate string

func (d *workdayDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = workdayDate(s)
		return nil
	}
	var obj struct {
		Value   string `json:"value"`
		Date    string `json:"date"`
		ISO8601 string `json:"iso8601"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Unknown shape means absent, not a failed posting.
		*d = ""
		return nil
	}
	switch {
	case obj.Value != "":
		*d = workdayDate(obj.Value)
	case obj.Date != "":
		*d = workdayDate(obj.Date)
	default:
		*d = workdayDate(obj.ISO8601)
	}
	return nil
}

// Workday fetches postings from a Workday career site. Two strategies are
// attempted in order: the tenant JSON search endpoint (skipped when the
// configured reference is not a myworkdayjobs.com host), then an HTML scrape
// of the career page. Only the JSON strategy yields posting timestamps.
type Workday struct {
	careersURL string
	employer   string
	client     *http.Client
}

func NewWorkday(src model.Source, client *http.Client) *Workday {
	return &Workday{
		careersURL: strings.TrimSpace(src.BoardRef),
		employer:   src.Name,
		client:     client,
	}
}

func (a *Workday) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	if strings.Contains(a.careersURL, workdayTenantHost) {
		postings, err := a.fetchSearch(ctx)
		if err == nil {
			return postings, nil
		}
		// JSON endpoint failed; the HTML page may still be reachable.
	}
	return a.fetchHTML(ctx)
}

// searchEndpoint appends the standard pagination path to the career-site
// base URL, query string stripped.
func (a *Workday) searchEndpoint() string {
	base := a.careersURL
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimRight(base, "/")
	return fmt.Sprintf("%s/fs/searchPagination/0/%d", base, workdayPageSize)
}

func (a *Workday) fetchSearch(ctx context.Context) ([]model.Posting, error) {
	body, err := json.Marshal(workdaySearchRequest{
		AppliedFacets: map[string]any{},
		Limit:         workdayPageSize,
		Offset:        0,
		SearchText:    "",
	})
	if err != nil {
		return nil, fmt.Errorf("workday search marshal for %s: %w", a.employer, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.searchEndpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("workday search request for %s: %w", a.employer, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workday search fetch for %s: %w", a.employer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("workday search fetch for %s: unexpected status %d", a.employer, resp.StatusCode),
		}
	}

	var searchResp workdaySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("workday search decode for %s: %w", a.employer, err)
	}

	raw := searchResp.JobPostings
	if len(raw) == 0 {
		raw = searchResp.JobPostingsSearchResult.JobPostings
	}

	postings := make([]model.Posting, 0, len(raw))
	for _, wp := range raw {
		title := wp.Title
		if title == "" {
			title = wp.TitlePlainText
		}

		location := wp.LocationsText
		if location == "" && len(wp.Locations) > 0 {
			location = strings.Join(wp.Locations, ", ")
		}

		p, err := normalize.Posting(model.Posting{
			Employer: a.employer,
			Title:    title,
			Location: location,
			URL:      a.absoluteURL(wp),
			PostedAt: a.parsePostedAt(wp),
			Source:   model.ATSWorkday,
		})
		if err != nil {
			continue
		}
		postings = append(postings, p)
	}

	return postings, nil
}

// absoluteURL resolves whichever path or URL field the tenant populated
// against the career-site base.
func (a *Workday) absoluteURL(wp workdayPosting) string {
	path := wp.ExternalPath
	if path == "" {
		path = wp.ExternalURL
	}
	if path == "" {
		path = wp.JobPostingExternalURL
	}
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	base := a.careersURL
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// parsePostedAt tries the date fields tenants populate, most specific first.
func (a *Workday) parsePostedAt(wp workdayPosting) *time.Time {
	for _, d := range []workdayDate{wp.PostedOnDate, wp.PostedDate, wp.StartDate, wp.PostedOn} {
		if t := normalize.ParseTime(string(d)); t != nil {
			return t
		}
	}
	return nil
}

// fetchHTML scrapes the career page directly: find job-title anchors by their
// known markup attributes, falling back to any anchor that resembles a job
// link. HTML postings never carry a timestamp.
func (a *Workday) fetchHTML(ctx context.Context) ([]model.Posting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.careersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("workday page request for %s: %w", a.employer, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workday page fetch for %s: %w", a.employer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("workday page fetch for %s: unexpected status %d", a.employer, resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("workday page parse for %s: %w", a.employer, err)
	}

	pageURL := resp.Request.URL

	// Known markup attribute names, newest first.
	anchors := doc.Find(`a[data-automation-id="jobTitle"]`)
	if anchors.Length() == 0 {
		anchors = doc.Find(`a[data-automation-id="jobTitleLink"]`)
	}

	var postings []model.Posting
	if anchors.Length() > 0 {
		anchors.Each(func(_ int, sel *goquery.Selection) {
			p, err := normalize.Posting(model.Posting{
				Employer: a.employer,
				Title:    strings.TrimSpace(sel.Text()),
				Location: nearbyLocation(sel),
				URL:      resolveHref(pageURL, sel),
				Source:   model.ATSWorkday,
			})
			if err != nil {
				return
			}
			postings = append(postings, p)
		})
		return postings, nil
	}

	// Last resort: generic anchors whose href looks like a job link.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !looksLikeJobLink(href) {
			return
		}
		p, err := normalize.Posting(model.Posting{
			Employer: a.employer,
			Title:    strings.TrimSpace(sel.Text()),
			URL:      resolveHref(pageURL, sel),
			Source:   model.ATSWorkday,
		})
		if err != nil {
			return
		}
		postings = append(postings, p)
	})
	return postings, nil
}

// nearbyLocation walks up from a job-title anchor to its listing container
// and picks the first element that looks like a location.
func nearbyLocation(sel *goquery.Selection) string {
	container := sel.Closest("li")
	if container.Length() == 0 {
		container = sel.Closest("section, article, div")
	}
	if container.Length() == 0 {
		return ""
	}
	for _, locSel := range []string{
		`[data-automation-id="locations"]`,
		`[data-automation-id="location"]`,
		`dd[class*="location"]`,
		`[class*="location"]`,
	} {
		if text := strings.TrimSpace(container.Find(locSel).First().Text()); text != "" {
			return strings.Join(strings.Fields(text), " ")
		}
	}
	return ""
}

// looksLikeJobLink reports whether an href plausibly points at a single job
// posting rather than site chrome.
func looksLikeJobLink(href string) bool {
	lower := strings.ToLower(href)
	return strings.Contains(lower, "/job/") || strings.Contains(lower, "/jobs/")
}

func resolveHref(page *url.URL, sel *goquery.Selection) string {
	href, ok := sel.Attr("href")
	if !ok || href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if page == nil {
		return href
	}
	return page.ResolveReference(ref).String()
}
