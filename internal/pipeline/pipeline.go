package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"jobradar/internal/merge"
	"jobradar/internal/model"
	"jobradar/internal/recency"
	"jobradar/internal/report"
)

// Fixed result strings. The success message matches the response the original
// deployment returned to its frontend.
const (
	MsgSuccess        = "Jobs fetched & emailed successfully!"
	MsgNoJobs         = "No matching job postings found."
	MsgDeliveryFailed = "Report generated but email delivery failed."

	SummaryUnavailable = "analysis not available"
	SummaryNoJobs      = "no jobs to report"
)

// Result is the final payload of one pipeline run, serialized as-is to the
// HTTP caller.
type Result struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message,omitempty"`
	Jobs      []model.JobPosting `json:"jobs"`
	Summary   string             `json:"summary"`
	Timestamp string             `json:"timestamp"`
	EmailSent bool               `json:"email_sent"`
}

// Orchestrator sequences one run: fetch from every source, filter by recency,
// merge and deduplicate, summarize, notify. Every collaborator failure
// degrades the result; none aborts the run.
type Orchestrator struct {
	sources    []model.PostingFetcher
	recency    *recency.Filter
	merger     *merge.Engine
	composer   *report.Composer
	summarizer model.Summarizer
	notifier   model.Notifier
	recorder   model.RunRecorder
	logger     *slog.Logger
}

// New creates an orchestrator wired with all its collaborators. Sources are
// fetched concurrently but merged in the order given here, so the slice order
// decides which source wins duplicate keys.
func New(
	sources []model.PostingFetcher,
	recencyFilter *recency.Filter,
	merger *merge.Engine,
	composer *report.Composer,
	summarizer model.Summarizer,
	notifier model.Notifier,
	recorder model.RunRecorder,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		sources:    sources,
		recency:    recencyFilter,
		merger:     merger,
		composer:   composer,
		summarizer: summarizer,
		notifier:   notifier,
		recorder:   recorder,
		logger:     logger,
	}
}

// Run executes one full pipeline pass and always returns a well-formed
// Result. Only a malformed-configuration class of error would surface before
// Run is ever called; everything inside degrades.
func (o *Orchestrator) Run(ctx context.Context) Result {
	started := time.Now()

	merged := o.Collect(ctx)
	o.logger.Info("merged postings", "unique", len(merged))

	res := Result{
		Success:   true,
		Jobs:      merged,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	// Empty merged set short-circuits the rest of the pipeline: no
	// summarization, no email.
	if len(merged) == 0 {
		res.Message = MsgNoJobs
		res.Summary = SummaryNoJobs
		o.record(started, res)
		return res
	}

	res.Summary = o.summarize(ctx, merged)
	res.EmailSent, res.Message = o.notify(ctx, merged, res.Summary)

	o.record(started, res)
	return res
}

// Collect runs only the data half of the pipeline: fetch, filter, merge. The
// preview command uses it to browse postings without summarizing or emailing.
func (o *Orchestrator) Collect(ctx context.Context) []model.JobPosting {
	batches := o.fetchAll(ctx)
	for i, batch := range batches {
		batches[i] = o.filterRecent(batch)
	}
	return o.merger.Merge(batches...)
}

// fetchAll invokes every source concurrently and returns their batches in
// configured source order regardless of completion order, so deduplication
// stays deterministic. A failing or credential-less source contributes an
// empty batch instead of failing the run.
func (o *Orchestrator) fetchAll(ctx context.Context) [][]model.JobPosting {
	batches := make([][]model.JobPosting, len(o.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range o.sources {
		g.Go(func() error {
			postings, err := src.FetchPostings(gctx)
			switch {
			case errors.Is(err, model.ErrMissingCredential):
				o.logger.Info("source disabled, no credential", "source", src.Name())
			case err != nil:
				o.logger.Warn("source unavailable, continuing without it", "source", src.Name(), "error", err)
			default:
				o.logger.Info("source fetched", "source", src.Name(), "postings", len(postings))
				batches[i] = postings
			}
			// Degrade-not-abort: a source failure must not cancel the others.
			return nil
		})
	}
	g.Wait()

	return batches
}

// filterRecent drops postings outside the freshness window, preserving order.
func (o *Orchestrator) filterRecent(batch []model.JobPosting) []model.JobPosting {
	kept := make([]model.JobPosting, 0, len(batch))
	for _, p := range batch {
		if o.recency.Keep(p.PostedAgeText) {
			kept = append(kept, p)
		}
	}
	return kept
}

// summarize runs the AI analysis. Any failure is replaced with the fixed
// placeholder; the posting list is never affected.
func (o *Orchestrator) summarize(ctx context.Context, postings []model.JobPosting) string {
	prompt, err := o.composer.Prompt(postings)
	if err != nil {
		o.logger.Warn("prompt composition failed", "error", err)
		return SummaryUnavailable
	}

	text, err := o.summarizer.Summarize(ctx, prompt)
	if errors.Is(err, model.ErrMissingCredential) {
		o.logger.Info("summarizer disabled, no credential")
		return SummaryUnavailable
	}
	if err != nil {
		o.logger.Warn("summarization failed, using placeholder", "error", err)
		return SummaryUnavailable
	}
	return text
}

// notify renders and delivers the report. A delivery failure is reflected in
// the message but keeps the run successful; the computed postings and summary
// are already in the result.
func (o *Orchestrator) notify(ctx context.Context, postings []model.JobPosting, summaryText string) (sent bool, message string) {
	renderedSummary := summaryText
	if renderedSummary == SummaryUnavailable {
		renderedSummary = ""
	}

	body, err := o.composer.HTMLBody(postings, renderedSummary)
	if err != nil {
		o.logger.Error("email body render failed", "error", err)
		return false, MsgDeliveryFailed
	}

	if err := o.notifier.Send(ctx, o.composer.Subject(), body); err != nil {
		o.logger.Error("email delivery failed", "error", err)
		return false, MsgDeliveryFailed
	}
	return true, MsgSuccess
}

// record persists the run outcome, best effort.
func (o *Orchestrator) record(started time.Time, res Result) {
	rec := model.RunRecord{
		StartedAt: started,
		Duration:  time.Since(started),
		Postings:  len(res.Jobs),
		Success:   res.Success,
		EmailSent: res.EmailSent,
		Message:   res.Message,
	}
	if err := o.recorder.Record(rec); err != nil {
		o.logger.Warn("run log write failed", "error", err)
	}
}
