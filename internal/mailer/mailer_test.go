package mailer

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"authstack/internal/config"
)

func TestNew_SelectsAdapter(t *testing.T) {
	logger := zerolog.Nop()

	console := New(&config.Config{MailServiceType: "console"}, logger)
	assert.IsType(t, &Console{}, console)

	smtp := New(&config.Config{MailServiceType: "smtp", SMTPHost: "mail.example.com", SMTPPort: 587}, logger)
	assert.IsType(t, &SMTP{}, smtp)
}

func TestConsole_SendLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	m := NewConsole(logger)
	err := m.Send([]string{"a@x.com"}, "Verify your email", "<a href=\"link\">Verify</a>")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "a@x.com")
	assert.Contains(t, buf.String(), "Verify your email")
}

func TestSMTP_SendRequiresRecipients(t *testing.T) {
	m := NewSMTP(&config.Config{SMTPHost: "mail.example.com", SMTPPort: 587})
	assert.Error(t, m.Send(nil, "subject", "body"))
}
