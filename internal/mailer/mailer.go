// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP connection and sender settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Mailer sends email through a single SMTP account.
type Mailer struct {
	cfg Config
}

// New creates a Mailer. Returns an error when the connection settings are
// incomplete so misconfiguration surfaces at startup, not on first send.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, fmt.Errorf("mailer: SMTP host and port are required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("mailer: SMTP username and password are required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("mailer: sender address is required")
	}
	return &Mailer{cfg: cfg}, nil
}

// Send delivers an email. The body can be plain text or HTML; the
// Content-Type header is inferred from the body. replyTo is optional.
func (m *Mailer) Send(recipient, replyTo, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") || strings.Contains(lower, "<div") {
		contentType = "text/html; charset=UTF-8"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "To: %s\r\n", recipient)
	fmt.Fprintf(&sb, "From: %s\r\n", m.cfg.From)
	if replyTo != "" {
		fmt.Fprintf(&sb, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	fmt.Fprintf(&sb, "Content-Type: %s\r\n\r\n%s\r\n", contentType, body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, []byte(sb.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
