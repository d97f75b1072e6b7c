package email

import (
	"context"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/davrill/taskhub-api/internal/config"
)

// SMTPDispatcher implements Dispatcher over an SMTP server using gomail.
type SMTPDispatcher struct {
	cfg    config.EmailConfig
	logger *slog.Logger

	// send is swapped in tests to avoid a real SMTP connection.
	send func(m *gomail.Message) error
}

// NewSMTPDispatcher creates a dispatcher from the email configuration.
// An unconfigured dispatcher (no host or user) reports sends as skipped.
func NewSMTPDispatcher(cfg config.EmailConfig, logger *slog.Logger) *SMTPDispatcher {
	d := &SMTPDispatcher{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "smtp_dispatcher")),
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.send = func(m *gomail.Message) error {
		return dialer.DialAndSend(m)
	}
	return d
}

// Send delivers a single HTML message. Transport failures are logged and
// returned inside the Result; they never propagate as errors.
func (d *SMTPDispatcher) Send(ctx context.Context, to, subject, htmlBody string) Result {
	if !d.cfg.Configured() {
		d.logger.Debug("email not configured, skipping send", "to", to)
		return Result{Skipped: true}
	}

	if err := ctx.Err(); err != nil {
		d.logger.Warn("context done before email send", "to", to, "error", err)
		return Result{Err: err}
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", d.cfg.User, d.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := d.send(m); err != nil {
		d.logger.Error("failed to send email",
			"to", to,
			"subject", subject,
			"error", err)
		return Result{Err: err}
	}

	d.logger.Debug("email sent", "to", to, "subject", subject)
	return Result{Success: true}
}
