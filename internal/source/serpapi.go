package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"jobradar/internal/model"
)

const serpapiBaseURL = "https://serpapi.com/search.json"

// serpapiResult is a single entry in the SerpAPI Google Jobs response. The
// recency descriptor is nested under detected_extensions.
type serpapiResult struct {
	Title              string `json:"title"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	Via                string `json:"via"`
	ShareLink          string `json:"share_link"`
	DetectedExtensions struct {
		PostedAt string `json:"posted_at"`
	} `json:"detected_extensions"`
}

// serpapiResponse is the top-level SerpAPI response. Pagination is
// token-based: an absent next_page_token means the last page.
type serpapiResponse struct {
	JobsResults []serpapiResult `json:"jobs_results"`
	Pagination  struct {
		NextPageToken string `json:"next_page_token"`
	} `json:"serpapi_pagination"`
}

// SerpAPIAdapter fetches postings from the SerpAPI Google Jobs engine and
// normalizes them into the unified JobPosting model.
type SerpAPIAdapter struct {
	baseURL     string
	apiKey      string
	query       string
	location    string
	maxPages    int
	maxPostings int
	client      *http.Client
	pager       *rate.Limiter // spaces out token-paginated page fetches
}

// NewSerpAPIAdapter creates an adapter for the given query and location.
// pageDelay is the politeness gap between consecutive page fetches; the
// first page is never delayed.
func NewSerpAPIAdapter(apiKey, query, location string, maxPages, maxPostings int, pageDelay time.Duration, client *http.Client) *SerpAPIAdapter {
	return &SerpAPIAdapter{
		baseURL:     serpapiBaseURL,
		apiKey:      apiKey,
		query:       query,
		location:    location,
		maxPages:    maxPages,
		maxPostings: maxPostings,
		client:      client,
		pager:       rate.NewLimiter(rate.Every(pageDelay), 1),
	}
}

// Name identifies this source in logs and error values.
func (a *SerpAPIAdapter) Name() string { return "serpapi" }

// FetchPostings paginates through the Google Jobs results until the provider
// reports no further page, maxPages is reached, or maxPostings is collected,
// whichever comes first.
func (a *SerpAPIAdapter) FetchPostings(ctx context.Context) ([]model.JobPosting, error) {
	if a.apiKey == "" {
		return nil, model.ErrMissingCredential
	}

	var all []model.JobPosting
	token := ""

	for page := 0; page < a.maxPages; page++ {
		if err := a.pager.Wait(ctx); err != nil {
			return nil, fmt.Errorf("serpapi page wait: %w", err)
		}

		resp, err := a.fetchPage(ctx, token)
		if err != nil {
			return nil, err
		}

		for _, r := range resp.JobsResults {
			all = append(all, model.JobPosting{
				Title:         r.Title,
				Company:       r.CompanyName,
				Location:      r.Location,
				PostedAgeText: r.DetectedExtensions.PostedAt,
				Source:        publisherFromVia(r.Via),
				Link:          r.ShareLink,
			})
			if a.maxPostings > 0 && len(all) >= a.maxPostings {
				return all, nil
			}
		}

		token = resp.Pagination.NextPageToken
		if token == "" {
			break
		}
	}

	return all, nil
}

func (a *SerpAPIAdapter) fetchPage(ctx context.Context, pageToken string) (*serpapiResponse, error) {
	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", a.query)
	params.Set("location", a.location)
	params.Set("api_key", a.apiKey)
	if pageToken != "" {
		params.Set("next_page_token", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &model.SourceError{Source: a.Name(), Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &model.SourceError{Source: a.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.SourceError{
			Source:     a.Name(),
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var out serpapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &model.SourceError{Source: a.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return &out, nil
}
