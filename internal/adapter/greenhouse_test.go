package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// testClient returns a client that rewrites every request to hit the given
// test server, so adapters can keep their real endpoint-derivation logic.
func testClient(srv *httptest.Server) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
}

func greenhouseSource(ref string) model.Source {
	return model.Source{Name: "Acme Corp", Kind: model.ATSGreenhouse, BoardRef: ref}
}

func TestGreenhouse_FetchPostings(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 12345,
				"title": "Software Engineer",
				"location": {"name": "San Francisco, CA"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/12345",
				"content": "&lt;p&gt;Build our platform.&lt;/p&gt;",
				"created_at": "2026-02-10T09:00:00Z",
				"updated_at": "2026-02-13T10:00:00Z"
			},
			{
				"id": 67890,
				"title": "Backend Engineer",
				"location": {"name": "Remote, US"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/67890",
				"content": "",
				"created_at": "2026-02-11T14:00:00Z",
				"updated_at": ""
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/boards/acme/jobs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("content") != "true" {
			t.Error("expected content expansion to be requested")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewGreenhouse(greenhouseSource("https://boards.greenhouse.io/acme"), testClient(srv))

	postings, err := a.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.Employer != "Acme Corp" {
		t.Errorf("expected employer Acme Corp, got %s", p.Employer)
	}
	if p.Title != "Software Engineer" {
		t.Errorf("expected title Software Engineer, got %s", p.Title)
	}
	if p.Location != "San Francisco, CA" {
		t.Errorf("expected location San Francisco, CA, got %s", p.Location)
	}
	if p.Description != "Build our platform." {
		t.Errorf("expected plain-text description, got %q", p.Description)
	}
	if p.Source != model.ATSGreenhouse {
		t.Errorf("expected source greenhouse, got %s", p.Source)
	}
	if p.PostedAt == nil {
		t.Fatal("expected PostedAt to be set")
	}
	// updated_at wins over created_at
	if p.PostedAt.Day() != 13 {
		t.Errorf("expected updated_at to take precedence, got %v", p.PostedAt)
	}

	// Second posting has no updated_at; created_at is the fallback.
	if postings[1].PostedAt == nil || postings[1].PostedAt.Day() != 11 {
		t.Errorf("expected created_at fallback, got %v", postings[1].PostedAt)
	}
}

func TestGreenhouse_BoardTokenFromURL(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"plain URL", "https://boards.greenhouse.io/acme", "acme"},
		{"trailing slash", "https://boards.greenhouse.io/acme/", "acme"},
		{"query string", "https://boards.greenhouse.io/acme?t=1", "acme"},
		{"bare slug", "acme", "acme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewGreenhouse(greenhouseSource(tt.ref), nil)
			if a.boardToken != tt.want {
				t.Errorf("boardToken = %q, want %q", a.boardToken, tt.want)
			}
		})
	}
}

func TestGreenhouse_SkipsPostingsMissingMandatoryFields(t *testing.T) {
	payload := `{
		"jobs": [
			{"id": 1, "title": "", "absolute_url": "https://x/1"},
			{"id": 2, "title": "Software Engineer", "absolute_url": ""},
			{"id": 3, "title": "Data Engineer", "absolute_url": "https://x/3"}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewGreenhouse(greenhouseSource("acme"), testClient(srv))
	postings, err := a.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected only the complete posting to survive, got %d", len(postings))
	}
	if postings[0].Title != "Data Engineer" {
		t.Errorf("wrong survivor: %s", postings[0].Title)
	}
	// Absent fields come back as empty strings, never unset.
	if postings[0].Location != "" || postings[0].Description != "" {
		t.Errorf("expected empty defaults, got %q / %q", postings[0].Location, postings[0].Description)
	}
}

func TestGreenhouse_EmptyBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs": []}`))
	}))
	defer srv.Close()

	a := NewGreenhouse(greenhouseSource("empty-co"), testClient(srv))
	postings, err := a.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("expected 0 postings, got %d", len(postings))
	}
}

func TestGreenhouse_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not valid json`))
	}))
	defer srv.Close()

	a := NewGreenhouse(greenhouseSource("bad-co"), testClient(srv))
	if _, err := a.FetchPostings(context.Background()); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestGreenhouse_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewGreenhouse(greenhouseSource("fail-co"), testClient(srv))
	_, err := a.FetchPostings(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 429, got nil")
	}
	httpErr, ok := err.(*model.HTTPError)
	if !ok {
		t.Fatalf("expected *model.HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", httpErr.StatusCode)
	}
	if httpErr.RetryAfter.Seconds() != 120 {
		t.Errorf("expected Retry-After 120s, got %v", httpErr.RetryAfter)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello world", "hello world"},
		{"simple tags", "<p>hello <b>world</b></p>", "hello world"},
		{"double encoded", "&lt;p&gt;hello&lt;/p&gt;", "hello"},
		{"whitespace collapse", "hello\n\n   world", "hello world"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractText(tt.input); got != tt.want {
				t.Errorf("extractText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
