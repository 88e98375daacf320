package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/config"
)

// Mailer delivers account emails.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
}

// NewMailer returns an SMTP mailer when SMTP_HOST is configured and a log
// mailer otherwise.
func NewMailer(cfg *config.Config, log zerolog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(log)
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		fromName: cfg.SMTPFromName,
	}
}

// LogMailer writes verification links to the log instead of sending mail.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

func (m *LogMailer) SendVerification(_ context.Context, to, _, link string) error {
	m.log.Info().Str("email", to).Str("link", link).Msg("Email verification link generated")
	return nil
}

// SMTPMailer sends plain-text mail with PLAIN auth.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	fromName string
}

func (m *SMTPMailer) SendVerification(_ context.Context, to, name, link string) error {
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s <%s>\r\n", m.fromName, m.username)
	fmt.Fprintf(&body, "To: %s\r\n", to)
	body.WriteString("Subject: Verify your email address\r\n")
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	fmt.Fprintf(&body, "Hi %s,\r\n\r\nPlease confirm your email address by opening the link below:\r\n\r\n%s\r\n", name, link)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.username, []string{to}, []byte(body.String())); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}
