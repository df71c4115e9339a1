package mailer

import (
	"context"
	"time"

	"jobradar/internal/model"
)

// SendTestReport sends a dummy report to verify the mail integration works.
func SendTestReport(ctx context.Context, n model.Notifier) error {
	body := "<h3>AI Job Report</h3><p>Test message, integration verified at " +
		time.Now().UTC().Format(time.RFC3339) + ".</p>"
	return n.Send(ctx, "Job Report Test", body)
}
