package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"jobradar/internal/model"
)

// RetryFetcher is a decorator that retries transient source failures with
// exponential backoff and jitter before delegating to the wrapped fetcher.
type RetryFetcher struct {
	inner      model.PostingFetcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps a PostingFetcher with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryFetcher(inner model.PostingFetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Name reports the wrapped source's name.
func (f *RetryFetcher) Name() string { return f.inner.Name() }

// FetchPostings attempts to fetch postings, retrying on transient errors.
func (f *RetryFetcher) FetchPostings(ctx context.Context) ([]model.JobPosting, error) {
	postings, err := f.inner.FetchPostings(ctx)
	if err == nil {
		return postings, nil
	}

	if !isRetryable(err) {
		return nil, err
	}

	lastErr := err
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		delay := f.backoffDelay(attempt, lastErr)

		f.logger.Warn("retrying after transient error",
			"source", f.inner.Name(),
			"attempt", attempt,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		postings, err = f.inner.FetchPostings(ctx)
		if err == nil {
			return postings, nil
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (f *RetryFetcher) backoffDelay(attempt int, err error) time.Duration {
	var srcErr *model.SourceError
	if errors.As(err, &srcErr) && srcErr.RetryAfter > 0 {
		return srcErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := f.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	// Apply ±30% jitter
	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A source without credentials is disabled, not failing.
	if errors.Is(err, model.ErrMissingCredential) {
		return false
	}

	var srcErr *model.SourceError
	if errors.As(err, &srcErr) && srcErr.StatusCode != 0 {
		if srcErr.StatusCode == 429 {
			return true
		}
		if srcErr.StatusCode >= 500 {
			return true
		}
		// Other 4xx responses will not change on a retry.
		return false
	}

	// Network, DNS and decode errors are worth another attempt.
	return true
}
