package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"jobradar/internal/model"
)

// Ensure GeminiSummarizer implements model.Summarizer.
var _ model.Summarizer = (*GeminiSummarizer)(nil)

// GeminiSummarizer produces the report summary via Google Gemini.
type GeminiSummarizer struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewGemini returns a summarizer targeting the given Gemini model
// (e.g. "gemini-1.5-flash").
func NewGemini(apiKey, modelName string, timeout time.Duration) *GeminiSummarizer {
	return &GeminiSummarizer{
		apiKey:  apiKey,
		model:   modelName,
		timeout: timeout,
	}
}

// Summarize sends the prepared prompt to Gemini and returns the generated
// text. The client is created per call; one pipeline run makes at most one
// summarization request.
func (s *GeminiSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", model.ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}
	defer client.Close()

	gm := client.GenerativeModel(s.model)
	gm.SetTemperature(0.1)

	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return extractText(resp)
}

// extractText pulls the concatenated text parts out of a Gemini response.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("empty text in response")
	}
	return out, nil
}
