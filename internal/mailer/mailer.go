// Package mailer provides outbound email behind a small adapter interface.
// The console adapter logs messages instead of sending them; the smtp
// adapter delivers through a real SMTP relay. Selection happens once at
// startup from configuration.
package mailer

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"authstack/internal/config"
)

// Mailer sends an HTML email to one or more recipients.
type Mailer interface {
	Send(to []string, subject, html string) error
}

// New selects the adapter configured by MAIL_SERVICE_TYPE.
func New(cfg *config.Config, logger zerolog.Logger) Mailer {
	if cfg.MailServiceType == "smtp" {
		return NewSMTP(cfg)
	}
	return NewConsole(logger)
}

// Console logs outgoing mail instead of delivering it. Default for local
// development.
type Console struct {
	logger zerolog.Logger
}

// NewConsole builds the console adapter.
func NewConsole(logger zerolog.Logger) *Console {
	return &Console{logger: logger}
}

func (m *Console) Send(to []string, subject, html string) error {
	m.logger.Info().
		Strs("to", to).
		Str("subject", subject).
		Str("html", html).
		Msg("console mail")
	return nil
}

// SMTP delivers mail through an SMTP relay via gomail.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP builds the SMTP adapter from config.
func NewSMTP(cfg *config.Config) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (m *SMTP) Send(to []string, subject, html string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
