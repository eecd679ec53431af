package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/harshusoma/job-alert-agent/internal/model"
	"github.com/harshusoma/job-alert-agent/internal/normalize"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverTitle tolerates both shapes Lever has served: a plain string or a
// nested object {"title": "..."}.
type leverTitle string

func (t *leverTitle) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = leverTitle(s)
		return nil
	}
	var obj struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*t = leverTitle(obj.Title)
	return nil
}

// leverCategories represents the categories object in a Lever posting.
type leverCategories struct {
	Team       string `json:"team"`
	Department string `json:"department"`
	Location   string `json:"location"`
	Commitment string `json:"commitment"`
}

// leverJob represents a single posting in the Lever API response.
type leverJob struct {
	ID               string          `json:"id"`
	Text             leverTitle      `json:"text"`
	DescriptionPlain string          `json:"descriptionPlain"`
	Description      string          `json:"description"`
	Categories       leverCategories `json:"categories"`
	CreatedAt        int64           `json:"createdAt"`
	HostedURL        string          `json:"hostedUrl"`
}

// Lever fetches postings from the Lever public postings API. The account slug
// is derived from the configured reference, which may be a URL or a bare slug.
type Lever struct {
	accountSlug string
	employer    string
	client      *http.Client
}

func NewLever(src model.Source, client *http.Client) *Lever {
	return &Lever{
		accountSlug: boardToken(src.BoardRef),
		employer:    src.Name,
		client:      client,
	}
}

// FetchPostings issues one read in JSON mode and normalizes each posting.
// Lever's createdAt is epoch milliseconds; commitment doubles as the
// employment type.
func (a *Lever) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, a.accountSlug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", a.accountSlug, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", a.accountSlug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("lever fetch for %s: unexpected status %d", a.accountSlug, resp.StatusCode),
		}
	}

	var leverJobs []leverJob
	if err := json.NewDecoder(resp.Body).Decode(&leverJobs); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", a.accountSlug, err)
	}

	postings := make([]model.Posting, 0, len(leverJobs))
	for _, lj := range leverJobs {
		description := lj.DescriptionPlain
		if description == "" {
			description = extractText(lj.Description)
		}

		p, err := normalize.Posting(model.Posting{
			Employer:       a.employer,
			Title:          string(lj.Text),
			Location:       lj.Categories.Location,
			Description:    description,
			URL:            lj.HostedURL,
			EmploymentType: lj.Categories.Commitment,
			PostedAt:       normalize.FromEpochMillis(lj.CreatedAt),
			Source:         model.ATSLever,
		})
		if err != nil {
			continue
		}
		postings = append(postings, p)
	}

	return postings, nil
}
