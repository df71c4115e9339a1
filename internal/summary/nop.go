package summary

import (
	"context"

	"jobradar/internal/model"
)

// Ensure NopSummarizer implements model.Summarizer.
var _ model.Summarizer = (*NopSummarizer)(nil)

// NopSummarizer is used when no Gemini key is configured. It fails with
// ErrMissingCredential so the orchestrator substitutes the placeholder text
// through the same path as a real summarizer failure.
type NopSummarizer struct{}

// NewNop returns a NopSummarizer.
func NewNop() *NopSummarizer {
	return &NopSummarizer{}
}

// Summarize always reports the missing credential.
func (n *NopSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return "", model.ErrMissingCredential
}
