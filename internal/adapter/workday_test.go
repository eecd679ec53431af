package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

func workdaySource(ref string) model.Source {
	return model.Source{Name: "Acme Corp", Kind: model.ATSWorkday, BoardRef: ref}
}

func TestWorkday_SearchStrategy(t *testing.T) {
	payload := `{
		"total": 2,
		"jobPostings": [
			{
				"title": "Software Engineer I",
				"externalPath": "/en-US/AcmeCareers/job/Austin-TX/Software-Engineer-I_R123",
				"locationsText": "Austin, TX",
				"postedOnDate": "2026-02-13"
			},
			{
				"title": "Data Engineer",
				"externalUrl": "https://acme.wd5.myworkdayjobs.com/en-US/AcmeCareers/job/R124",
				"locationsText": "Remote - US",
				"postedOn": {"value": "2026-02-12T08:00:00Z"}
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/en-US/AcmeCareers/fs/searchPagination/0/50" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body workdaySearchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding search payload: %v", err)
		}
		if body.SearchText != "" {
			t.Errorf("expected empty search text, got %q", body.SearchText)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewWorkday(workdaySource("https://acme.wd5.myworkdayjobs.com/en-US/AcmeCareers"), testClient(srv))
	postings, err := a.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.Title != "Software Engineer I" {
		t.Errorf("unexpected title: %s", p.Title)
	}
	if p.URL != "https://acme.wd5.myworkdayjobs.com/en-US/AcmeCareers/en-US/AcmeCareers/job/Austin-TX/Software-Engineer-I_R123" {
		// externalPath is resolved against the configured base URL
		t.Errorf("unexpected URL: %s", p.URL)
	}
	if p.PostedAt == nil || p.PostedAt.Day() != 13 {
		t.Errorf("expected date-only postedOnDate to parse, got %v", p.PostedAt)
	}

	// Second posting: absolute externalUrl passes through, object-shaped date.
	if postings[1].URL != "https://acme.wd5.myworkdayjobs.com/en-US/AcmeCareers/job/R124" {
		t.Errorf("unexpected URL: %s", postings[1].URL)
	}
	if postings[1].PostedAt == nil || postings[1].PostedAt.Hour() != 8 {
		t.Errorf("expected object-shaped date to parse, got %v", postings[1].PostedAt)
	}
}

func TestWorkday_NestedSearchResultShape(t *testing.T) {
	payload := `{
		"jobPostingsSearchResult": {
			"jobPostings": [
				{
					"title": "Security Analyst",
					"externalPath": "/job/R200",
					"locationsText": "Reston, VA"
				}
			]
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewWorkday(workdaySource("https://acme.wd5.myworkdayjobs.com/AcmeCareers"), testClient(srv))
	postings, err := a.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}
	if postings[0].Title != "Security Analyst" {
		t.Errorf("unexpected title: %s", postings[0].Title)
	}
	if postings[0].PostedAt != nil {
		t.Errorf("no date fields should mean absent PostedAt, got %v", postings[0].PostedAt)
	}
}

func TestWorkday_HTMLFallback(t *testing.T) {
	page := `<html><body>
		<ul>
			<li>
				<a data-automation-id="jobTitle" href="/careers/job/123">Software Engineer</a>
				<dd data-automation-id="locations">Austin, TX</dd>
			</li>
			<li>
				<a data-automation-id="jobTitle" href="/careers/job/456">Data Engineer</a>
			</li>
		</ul>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("HTML fallback should GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	// Not a myworkdayjobs.com host, so the JSON strategy is skipped entirely.
	a := NewWorkday(workdaySource("https://careers.acme.com/jobs"), testClient(srv))
	postings, err := a.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	if postings[0].Title != "Software Engineer" {
		t.Errorf("unexpected title: %s", postings[0].Title)
	}
	if postings[0].Location != "Austin, TX" {
		t.Errorf("expected nearby location to be matched, got %q", postings[0].Location)
	}
	if postings[1].Location != "" {
		t.Errorf("no location element means empty string, got %q", postings[1].Location)
	}
	for _, p := range postings {
		if p.PostedAt != nil {
			t.Errorf("HTML fallback never yields timestamps, got %v", p.PostedAt)
		}
		if p.URL == "" {
			t.Error("expected href to resolve to an absolute URL")
		}
	}
}

func TestWorkday_GenericAnchorFallback(t *testing.T) {
	page := `<html><body>
		<nav><a href="/about">About us</a></nav>
		<a href="/careers/jobs/health-data-engineer">Health Data Engineer</a>
		<a href="/careers/jobs/">All openings</a>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	a := NewWorkday(workdaySource("https://careers.acme.com"), testClient(srv))
	postings, err := a.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "/about" is filtered out; the two /careers/jobs/ links survive.
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	if postings[0].Title != "Health Data Engineer" {
		t.Errorf("unexpected title: %s", postings[0].Title)
	}
}

func TestWorkday_SearchFailureFallsBackToHTML(t *testing.T) {
	page := `<html><body>
		<a data-automation-id="jobTitleLink" href="/job/789">ML Engineer</a>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	a := NewWorkday(workdaySource("https://acme.wd5.myworkdayjobs.com/AcmeCareers"), testClient(srv))
	postings, err := a.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected HTML fallback to recover, got %d postings", len(postings))
	}
	if postings[0].Title != "ML Engineer" {
		t.Errorf("unexpected title: %s", postings[0].Title)
	}
}

func TestWorkday_BothStrategiesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	a := NewWorkday(workdaySource("https://acme.wd5.myworkdayjobs.com/AcmeCareers"), testClient(srv))
	if _, err := a.FetchPostings(context.Background()); err == nil {
		t.Fatal("expected error when both strategies fail")
	}
}
