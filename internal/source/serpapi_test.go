package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobradar/internal/model"
)

func newTestSerpAPI(srv *httptest.Server, maxPages, maxPostings int) *SerpAPIAdapter {
	a := NewSerpAPIAdapter("test-key", "scrum master", "Bangalore", maxPages, maxPostings, time.Millisecond, srv.Client())
	a.baseURL = srv.URL
	return a
}

func TestSerpAPI_FetchPostings_Success(t *testing.T) {
	payload := `{
		"jobs_results": [
			{
				"title": "Scrum Master",
				"company_name": "Acme",
				"location": "Bangalore, Karnataka, India",
				"via": "via LinkedIn",
				"share_link": "https://www.google.com/search?q=scrum+master#1",
				"detected_extensions": {"posted_at": "2 days ago"}
			},
			{
				"title": "Project Manager",
				"company_name": "Beta",
				"location": "Bengaluru, India",
				"via": "via Naukri.com",
				"share_link": "https://www.google.com/search?q=pm#2",
				"detected_extensions": {}
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "google_jobs" {
			t.Errorf("expected engine=google_jobs, got %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected api_key=test-key, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	postings, err := newTestSerpAPI(srv, 3, 50).FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.Title != "Scrum Master" || p.Company != "Acme" {
		t.Errorf("unexpected first posting: %+v", p)
	}
	if p.PostedAgeText != "2 days ago" {
		t.Errorf("expected posted age from detected_extensions, got %q", p.PostedAgeText)
	}
	if p.Source != "LinkedIn" {
		t.Errorf("expected via prefix stripped, got %q", p.Source)
	}
	if postings[1].PostedAgeText != "" {
		t.Errorf("expected empty age text when detected_extensions has none, got %q", postings[1].PostedAgeText)
	}
}

func TestSerpAPI_FetchPostings_Pagination(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("next_page_token") {
		case "":
			w.Write([]byte(`{
				"jobs_results": [{"title": "A", "company_name": "X", "location": "Bangalore"}],
				"serpapi_pagination": {"next_page_token": "tok2"}
			}`))
		case "tok2":
			w.Write([]byte(`{
				"jobs_results": [{"title": "B", "company_name": "Y", "location": "Bangalore"}]
			}`))
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("next_page_token"))
		}
	}))
	defer srv.Close()

	postings, err := newTestSerpAPI(srv, 5, 50).FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 2 {
		t.Errorf("expected pagination to stop after 2 pages, got %d", pages)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings across pages, got %d", len(postings))
	}
	if postings[0].Title != "A" || postings[1].Title != "B" {
		t.Errorf("expected provider order preserved, got %+v", postings)
	}
}

func TestSerpAPI_FetchPostings_MaxPagesCap(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		w.Header().Set("Content-Type", "application/json")
		// Always advertise another page; the cap has to stop us.
		w.Write([]byte(`{
			"jobs_results": [{"title": "A", "company_name": "X", "location": "Bangalore"}],
			"serpapi_pagination": {"next_page_token": "more"}
		}`))
	}))
	defer srv.Close()

	_, err := newTestSerpAPI(srv, 2, 50).FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 2 {
		t.Errorf("expected max_pages to cap fetches at 2, got %d", pages)
	}
}

func TestSerpAPI_FetchPostings_MaxPostingsCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"jobs_results": [
				{"title": "A", "company_name": "X", "location": "Bangalore"},
				{"title": "B", "company_name": "Y", "location": "Bangalore"},
				{"title": "C", "company_name": "Z", "location": "Bangalore"}
			],
			"serpapi_pagination": {"next_page_token": "more"}
		}`))
	}))
	defer srv.Close()

	postings, err := newTestSerpAPI(srv, 5, 2).FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected max_postings to cap at 2, got %d", len(postings))
	}
}

func TestSerpAPI_FetchPostings_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestSerpAPI(srv, 1, 10).FetchPostings(context.Background())
	var srcErr *model.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %v", err)
	}
	if srcErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", srcErr.StatusCode)
	}
}

func TestSerpAPI_FetchPostings_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not valid json`))
	}))
	defer srv.Close()

	_, err := newTestSerpAPI(srv, 1, 10).FetchPostings(context.Background())
	var srcErr *model.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError for malformed JSON, got %v", err)
	}
}

func TestSerpAPI_FetchPostings_MissingKey(t *testing.T) {
	a := NewSerpAPIAdapter("", "q", "c", 1, 10, time.Millisecond, http.DefaultClient)

	_, err := a.FetchPostings(context.Background())
	if !errors.Is(err, model.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
