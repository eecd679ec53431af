package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/harshusoma/job-alert-agent/internal/model"
	"github.com/harshusoma/job-alert-agent/internal/normalize"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// ashbyJob represents a single job in the Ashby job-board API response.
type ashbyJob struct {
	Title           string `json:"title"`
	Location        string `json:"location"`
	JobURL          string `json:"jobUrl"`
	DescriptionHTML string `json:"descriptionHtml"`
	DescriptionText string `json:"descriptionPlain"`
	EmploymentType  string `json:"employmentType"`
	PublishedAt     string `json:"publishedAt"`
	IsListed        bool   `json:"isListed"`
}

// ashbyResponse is the top-level Ashby job board API response.
type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

// Ashby fetches postings from the Ashby non-authenticated board listing
// endpoint. The board name is the trailing path segment of the configured
// reference.
type Ashby struct {
	boardName string
	employer  string
	client    *http.Client
}

func NewAshby(src model.Source, client *http.Client) *Ashby {
	return &Ashby{
		boardName: boardToken(src.BoardRef),
		employer:  src.Name,
		client:    client,
	}
}

// FetchPostings issues one board listing request and normalizes each listed
// job. publishedAt is ISO-8601.
func (a *Ashby) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s", ashbyBaseURL, a.boardName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", a.boardName, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", a.boardName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("ashby fetch for %s: unexpected status %d", a.boardName, resp.StatusCode),
		}
	}

	var ashbyResp ashbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&ashbyResp); err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", a.boardName, err)
	}

	postings := make([]model.Posting, 0, len(ashbyResp.Jobs))
	for _, aj := range ashbyResp.Jobs {
		if !aj.IsListed {
			continue
		}

		description := aj.DescriptionText
		if description == "" {
			description = extractText(aj.DescriptionHTML)
		}

		p, err := normalize.Posting(model.Posting{
			Employer:       a.employer,
			Title:          aj.Title,
			Location:       aj.Location,
			Description:    description,
			URL:            aj.JobURL,
			EmploymentType: aj.EmploymentType,
			PostedAt:       normalize.ParseTime(aj.PublishedAt),
			Source:         model.ATSAshby,
		})
		if err != nil {
			continue
		}
		postings = append(postings, p)
	}

	return postings, nil
}
