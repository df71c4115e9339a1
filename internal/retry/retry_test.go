package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"jobradar/internal/model"
)

type stubFetcher struct {
	results []fetchResult
	calls   int
}

type fetchResult struct {
	postings []model.JobPosting
	err      error
}

func (s *stubFetcher) Name() string { return "stub" }

func (s *stubFetcher) FetchPostings(ctx context.Context) ([]model.JobPosting, error) {
	r := s.results[s.calls]
	if s.calls < len(s.results)-1 {
		s.calls++
	}
	return r.postings, r.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchPostings_SuccessNoRetry(t *testing.T) {
	stub := &stubFetcher{results: []fetchResult{
		{postings: []model.JobPosting{{Title: "PM"}}},
	}}
	f := NewRetryFetcher(stub, 2, time.Millisecond, discard())

	postings, err := f.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}
	if stub.calls != 0 {
		t.Errorf("expected no retries, got %d", stub.calls)
	}
}

func TestFetchPostings_RetriesTransient(t *testing.T) {
	transient := &model.SourceError{Source: "stub", StatusCode: 503, Err: fmt.Errorf("unavailable")}
	stub := &stubFetcher{results: []fetchResult{
		{err: transient},
		{postings: []model.JobPosting{{Title: "PM"}}},
	}}
	f := NewRetryFetcher(stub, 2, time.Millisecond, discard())

	postings, err := f.FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting after retry, got %d", len(postings))
	}
}

func TestFetchPostings_NoRetryOn4xx(t *testing.T) {
	forbidden := &model.SourceError{Source: "stub", StatusCode: 403, Err: fmt.Errorf("forbidden")}
	stub := &stubFetcher{results: []fetchResult{{err: forbidden}}}
	f := NewRetryFetcher(stub, 3, time.Millisecond, discard())

	_, err := f.FetchPostings(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if stub.calls != 0 {
		t.Errorf("expected no retries for 403, got %d", stub.calls)
	}
}

func TestFetchPostings_NoRetryOnMissingCredential(t *testing.T) {
	stub := &stubFetcher{results: []fetchResult{{err: model.ErrMissingCredential}}}
	f := NewRetryFetcher(stub, 3, time.Millisecond, discard())

	_, err := f.FetchPostings(context.Background())
	if !errors.Is(err, model.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if stub.calls != 0 {
		t.Errorf("expected no retries for missing credential, got %d", stub.calls)
	}
}

func TestFetchPostings_ExhaustsRetries(t *testing.T) {
	transient := &model.SourceError{Source: "stub", StatusCode: 500, Err: fmt.Errorf("boom")}
	stub := &stubFetcher{results: []fetchResult{{err: transient}}}
	f := NewRetryFetcher(stub, 2, time.Millisecond, discard())

	_, err := f.FetchPostings(context.Background())
	var srcErr *model.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError after exhausting retries, got %v", err)
	}
}

func TestBackoffDelay_RespectsRetryAfter(t *testing.T) {
	f := NewRetryFetcher(&stubFetcher{}, 2, time.Second, discard())
	err := &model.SourceError{Source: "stub", StatusCode: 429, RetryAfter: 7 * time.Second, Err: fmt.Errorf("rate limited")}

	if got := f.backoffDelay(1, err); got != 7*time.Second {
		t.Errorf("expected Retry-After to take precedence, got %v", got)
	}
}
