package mailer

import (
	"context"
	"log/slog"

	"jobradar/internal/model"
)

// Ensure LogMailer implements model.Notifier.
var _ model.Notifier = (*LogMailer)(nil)

// LogMailer is used when no email recipient is configured: the report is
// logged instead of delivered. Useful for local runs and tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer returns a notifier that logs each report via slog.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the subject and body size. Returns nil (logging does not fail).
func (m *LogMailer) Send(_ context.Context, subject, htmlBody string) error {
	m.logger.Info("email delivery disabled, logging report",
		"subject", subject,
		"body_bytes", len(htmlBody),
	)
	return nil
}
