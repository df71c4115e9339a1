package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"jobradar/internal/model"
)

const (
	jsearchBaseURL = "https://jsearch.p.rapidapi.com/search"
	jsearchHost    = "jsearch.p.rapidapi.com"
)

// jsearchJob is a single entry in the JSearch response. Unlike SerpAPI the
// recency descriptor is a flat field.
type jsearchJob struct {
	JobTitle     string `json:"job_title"`
	EmployerName string `json:"employer_name"`
	JobLocation  string `json:"job_location"`
	JobCity      string `json:"job_city"`
	JobCountry   string `json:"job_country"`
	JobPostedAt  string `json:"job_posted_at"`
	JobPublisher string `json:"job_publisher"`
	JobApplyLink string `json:"job_apply_link"`
}

// jsearchResponse is the top-level JSearch response.
type jsearchResponse struct {
	Status string       `json:"status"`
	Data   []jsearchJob `json:"data"`
}

// JSearchAdapter fetches postings from the JSearch API on RapidAPI,
// authenticated via a header-based key.
type JSearchAdapter struct {
	baseURL     string
	apiKey      string
	query       string
	city        string
	pages       int
	maxPostings int
	client      *http.Client
}

// NewJSearchAdapter creates an adapter that searches for the given query in
// the given city. pages is passed through as the provider's num_pages
// parameter (a single request returns that many result pages).
func NewJSearchAdapter(apiKey, query, city string, pages, maxPostings int, client *http.Client) *JSearchAdapter {
	return &JSearchAdapter{
		baseURL:     jsearchBaseURL,
		apiKey:      apiKey,
		query:       query,
		city:        city,
		pages:       pages,
		maxPostings: maxPostings,
		client:      client,
	}
}

// Name identifies this source in logs and error values.
func (a *JSearchAdapter) Name() string { return "jsearch" }

// FetchPostings retrieves postings and normalizes them into the unified
// JobPosting model, truncating at maxPostings.
func (a *JSearchAdapter) FetchPostings(ctx context.Context) ([]model.JobPosting, error) {
	if a.apiKey == "" {
		return nil, model.ErrMissingCredential
	}

	params := url.Values{}
	params.Set("query", a.query+" in "+a.city)
	params.Set("page", "1")
	params.Set("num_pages", strconv.Itoa(a.pages))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &model.SourceError{Source: a.Name(), Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("X-RapidAPI-Key", a.apiKey)
	req.Header.Set("X-RapidAPI-Host", jsearchHost)

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

	var out jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &model.SourceError{Source: a.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	postings := make([]model.JobPosting, 0, len(out.Data))
	for _, j := range out.Data {
		postings = append(postings, model.JobPosting{
			Title:         j.JobTitle,
			Company:       j.EmployerName,
			Location:      jsearchLocation(j),
			PostedAgeText: j.JobPostedAt,
			Source:        j.JobPublisher,
			Link:          j.JobApplyLink,
		})
		if a.maxPostings > 0 && len(postings) >= a.maxPostings {
			break
		}
	}

	return postings, nil
}

// jsearchLocation prefers the provider's combined location string, falling
// back to "city, country" assembled from the flat fields.
func jsearchLocation(j jsearchJob) string {
	if j.JobLocation != "" {
		return j.JobLocation
	}
	parts := make([]string, 0, 2)
	if j.JobCity != "" {
		parts = append(parts, j.JobCity)
	}
	if j.JobCountry != "" {
		parts = append(parts, j.JobCountry)
	}
	return strings.Join(parts, ", ")
}
