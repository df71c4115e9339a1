package model

import (
	"context"
	"strings"
	"time"
)

// JobPosting is the unified representation of one job listing from any source.
// Instances are immutable once a source adapter has built them; downstream
// stages filter or copy, never mutate.
type JobPosting struct {
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	PostedAgeText string `json:"posted_age_text,omitempty"` // free-text recency, e.g. "2 days ago"
	Source        string `json:"source"`                    // publisher/provider name
	Link          string `json:"link"`
}

// Key returns the case-insensitive identity key used for deduplication.
// Two postings with the same key are the same listing regardless of source.
func (p JobPosting) Key() string {
	return strings.ToLower(p.Title) + "|" + strings.ToLower(p.Company) + "|" + strings.ToLower(p.Location)
}

// RunRecord is the durable outcome of one pipeline run. Postings themselves
// are never persisted; only these counters and flags are.
type RunRecord struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Postings  int           `json:"postings"`
	Success   bool          `json:"success"`
	EmailSent bool          `json:"email_sent"`
	Message   string        `json:"message"`
}

// PostingFetcher fetches job postings from one external provider.
type PostingFetcher interface {
	Name() string
	FetchPostings(ctx context.Context) ([]JobPosting, error)
}

// Summarizer turns a prepared prompt into a natural-language report.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Notifier delivers the rendered report.
type Notifier interface {
	Send(ctx context.Context, subject string, htmlBody string) error
}

// RunRecorder persists run outcomes for the /runs endpoint.
type RunRecorder interface {
	Record(run RunRecord) error
	Recent(limit int) ([]RunRecord, error)
}
