package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"jobradar/internal/model"
)

//go:embed templates/summary_prompt.md
var summaryPromptRaw string

//go:embed templates/email.html.tmpl
var emailBodyRaw string

// Parsed once at package init; reused on every compose call.
var (
	summaryPromptTmpl = texttemplate.Must(texttemplate.New("summary_prompt").Parse(summaryPromptRaw))
	emailBodyTmpl     = template.Must(template.New("email_body").Parse(emailBodyRaw))
)

// Composer turns a merged posting list into the run's presentation artifacts:
// a plain list, the summarizer prompt payload, and the HTML email body.
// It never calls the summarizer or the mailer itself.
type Composer struct {
	query string
	city  string
}

// NewComposer returns a composer for the configured role query and city.
func NewComposer(query, city string) *Composer {
	return &Composer{query: query, city: city}
}

// Subject is the fixed email subject template parameterized by the city.
func (c *Composer) Subject() string {
	return "Latest Job Report - " + c.city
}

// ListText renders one numbered plain-text line per posting, in merge order.
func (c *Composer) ListText(postings []model.JobPosting) string {
	var b strings.Builder
	for i, p := range postings {
		fmt.Fprintf(&b, "%d. %s — %s (%s)", i+1, p.Title, p.Company, p.Location)
		if p.PostedAgeText != "" {
			fmt.Fprintf(&b, " · %s", p.PostedAgeText)
		}
		if p.Source != "" {
			fmt.Fprintf(&b, " · via %s", p.Source)
		}
		if p.Link != "" {
			fmt.Fprintf(&b, "\n   %s", p.Link)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Prompt builds the analysis request payload for the summarizer: the full
// posting set as JSON plus the fixed instruction block. The instructions
// forbid fabricated compensation figures; that contract lives in the
// template, not in code.
func (c *Composer) Prompt(postings []model.JobPosting) (string, error) {
	payload, err := json.MarshalIndent(postings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal postings: %w", err)
	}

	var buf bytes.Buffer
	err = summaryPromptTmpl.Execute(&buf, struct {
		Query        string
		City         string
		Count        int
		PostingsJSON string
	}{
		Query:        c.query,
		City:         c.city,
		Count:        len(postings),
		PostingsJSON: string(payload),
	})
	if err != nil {
		return "", fmt.Errorf("render summary prompt: %w", err)
	}
	return buf.String(), nil
}

// HTMLBody renders the email body: the summary text when available, always
// followed by the full posting list.
func (c *Composer) HTMLBody(postings []model.JobPosting, summary string) (string, error) {
	var buf bytes.Buffer
	err := emailBodyTmpl.Execute(&buf, struct {
		Query    string
		City     string
		Count    int
		Summary  string
		Postings []model.JobPosting
	}{
		Query:    c.query,
		City:     c.city,
		Count:    len(postings),
		Summary:  summary,
		Postings: postings,
	})
	if err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}
