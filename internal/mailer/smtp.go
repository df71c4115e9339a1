package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"jobradar/internal/model"
)

// Ensure SMTPMailer implements model.Notifier.
var _ model.Notifier = (*SMTPMailer)(nil)

// SMTPMailer delivers the rendered report over authenticated SMTP.
type SMTPMailer struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	recipient string
	logger    *slog.Logger
}

// NewSMTPMailer returns a mailer for the given SMTP account. The sender
// address is the authenticated username; fromName is the display name.
func NewSMTPMailer(host string, port int, username, password, fromName, recipient string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		recipient: recipient,
		logger:    logger,
	}
}

// Send builds and delivers one HTML email. The connection is dialed per send;
// a pipeline run sends at most one message.
func (m *SMTPMailer) Send(ctx context.Context, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.username); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.recipient, err)
	}

	m.logger.Info("report email sent", "recipient", m.recipient, "subject", subject)
	return nil
}
