package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/harshusoma/job-alert-agent/internal/model"
	"github.com/harshusoma/job-alert-agent/internal/normalize"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	Content     string             `json:"content"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Greenhouse fetches postings from the Greenhouse public job-board API. The
// board token is the trailing path segment of the configured board reference.
type Greenhouse struct {
	boardToken string
	employer   string
	client     *http.Client
}

func NewGreenhouse(src model.Source, client *http.Client) *Greenhouse {
	return &Greenhouse{
		boardToken: boardToken(src.BoardRef),
		employer:   src.Name,
		client:     client,
	}
}

// FetchPostings issues one listing request with content expansion and
// normalizes each element into a canonical posting.
func (a *Greenhouse) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, a.boardToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", a.boardToken, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", a.boardToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("greenhouse fetch for %s: unexpected status %d", a.boardToken, resp.StatusCode),
		}
	}

	var ghResp greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", a.boardToken, err)
	}

	postings := make([]model.Posting, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		// updated_at reflects the repost date for refreshed listings; fall
		// back to created_at when absent.
		postedAt := normalize.ParseTime(gj.UpdatedAt)
		if postedAt == nil {
			postedAt = normalize.ParseTime(gj.CreatedAt)
		}

		p, err := normalize.Posting(model.Posting{
			Employer:    a.employer,
			Title:       gj.Title,
			Location:    gj.Location.Name,
			Description: extractText(gj.Content),
			URL:         gj.AbsoluteURL,
			PostedAt:    postedAt,
			Source:      model.ATSGreenhouse,
		})
		if err != nil {
			continue // mandatory field missing, drop this posting only
		}
		postings = append(postings, p)
	}

	return postings, nil
}
