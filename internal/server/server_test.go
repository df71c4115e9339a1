package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobradar/internal/merge"
	"jobradar/internal/model"
	"jobradar/internal/pipeline"
	"jobradar/internal/recency"
	"jobradar/internal/report"
)

type staticSource struct {
	postings []model.JobPosting
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) FetchPostings(context.Context) ([]model.JobPosting, error) {
	return s.postings, nil
}

type noSummarizer struct{}

func (noSummarizer) Summarize(context.Context, string) (string, error) {
	return "", model.ErrMissingCredential
}

type okNotifier struct{}

func (okNotifier) Send(context.Context, string, string) error { return nil }

type memRecorder struct {
	records []model.RunRecord
}

func (m *memRecorder) Record(r model.RunRecord) error { m.records = append(m.records, r); return nil }

func (m *memRecorder) Recent(int) ([]model.RunRecord, error) { return m.records, nil }

func newTestServer(postings []model.JobPosting) (*Server, *memRecorder) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &memRecorder{}
	orch := pipeline.New(
		[]model.PostingFetcher{&staticSource{postings: postings}},
		recency.New(30, false),
		merge.New(nil),
		report.NewComposer("scrum master", "Bangalore"),
		noSummarizer{},
		okNotifier{},
		rec,
		logger,
	)
	return New(orch, rec, logger), rec
}

func TestHandleRun_Success(t *testing.T) {
	srv, _ := newTestServer([]model.JobPosting{
		{Title: "Scrum Master", Company: "Acme", Location: "Bangalore", PostedAgeText: "1 day ago"},
	})

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res pipeline.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !res.Success {
		t.Error("expected success true")
	}
	if len(res.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(res.Jobs))
	}
	if res.Summary != pipeline.SummaryUnavailable {
		t.Errorf("expected placeholder summary, got %q", res.Summary)
	}
	if _, err := time.Parse(time.RFC3339, res.Timestamp); err != nil {
		t.Errorf("timestamp is not RFC 3339: %q", res.Timestamp)
	}
}

func TestHandleRun_EmptyResult(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/run", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	var res pipeline.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !res.Success {
		t.Error("expected success true for empty result")
	}
	if res.Jobs == nil || len(res.Jobs) != 0 {
		t.Errorf("expected jobs: [], got %v", res.Jobs)
	}
	if res.Summary != pipeline.SummaryNoJobs {
		t.Errorf("expected %q, got %q", pipeline.SummaryNoJobs, res.Summary)
	}
}

func TestHandleRun_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodDelete, "/run", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHandleRuns(t *testing.T) {
	srv, rec := newTestServer(nil)
	rec.records = append(rec.records, model.RunRecord{Success: true, Message: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var runs []model.RunRecord
	if err := json.Unmarshal(w.Body.Bytes(), &runs); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(runs) != 1 || runs[0].Message != "ok" {
		t.Errorf("unexpected runs payload: %+v", runs)
	}
}

func TestHandleHealthz(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
