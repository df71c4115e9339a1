package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingCredential marks a source or collaborator skipped because its API
// key is not configured. The orchestrator treats it as "disabled", not failed.
var ErrMissingCredential = errors.New("missing credential")

// SourceError wraps a provider failure (bad status, network error, malformed
// payload) so the orchestrator can degrade instead of abort, and so retry
// logic can inspect the HTTP status code.
type SourceError struct {
	Source     string
	StatusCode int           // zero for network and decode failures
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %s: HTTP %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
