// Package mailer delivers the adapted report as a text/html email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dt-pm-tools/jira-report/internal/config"
)

// Mailer sends HTML email through a configured SMTP relay.
type Mailer struct {
	cfg config.SMTPConfig
}

// New creates a Mailer from SMTP config.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers htmlBody as a text/html message to the configured
// recipients.
func (m *Mailer) Send(subject, htmlBody string) error {
	if m.cfg.Host == "" || m.cfg.From == "" || len(m.cfg.To) == 0 {
		return fmt.Errorf("smtp host, from, and to must be configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(m.cfg.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, m.cfg.To, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
