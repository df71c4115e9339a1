package mailer

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestLogMailer_Send(t *testing.T) {
	m := NewLogMailer(slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := m.Send(context.Background(), "subject", "<p>body</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSendTestReport(t *testing.T) {
	m := NewLogMailer(slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := SendTestReport(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
