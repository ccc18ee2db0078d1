package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/logging"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string // SMTP host; smtp.gmail.com when empty
	Port     int    // SMTP port; 465 when empty
	Address  string // sender address, doubles as the SMTP username
	Password string // SMTP password (an app password for Gmail accounts)
}

// Mailer sends notification emails over SMTP.
type Mailer struct {
	cfg    Config
	logger *slog.Logger
}

// NewMailer creates a Mailer. Missing credentials are not an error here;
// sends will fail individually until the mailer is configured, and those
// failures are captured by the caller's delivery report.
func NewMailer(cfg Config, logger *slog.Logger) *Mailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{cfg: cfg, logger: logging.WithService(logger, "notify")}
}

// Configured reports whether the mailer has credentials to send with.
func (m *Mailer) Configured() bool {
	return m.cfg.Address != "" && m.cfg.Password != ""
}

// Send delivers a single plain-text email.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient is required")
	}
	if subject == "" {
		return fmt.Errorf("subject is required")
	}
	if body == "" {
		return fmt.Errorf("body is required")
	}
	if !m.Configured() {
		return fmt.Errorf("email credentials not configured")
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Address),
		mail.WithPassword(m.cfg.Password),
	}
	// Port 465 speaks implicit TLS; other ports negotiate via STARTTLS
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Address); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("notification sent", logging.UserHash(to))

	return nil
}
