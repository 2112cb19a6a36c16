package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopline/shop-api/internal/core/ports"
)

// LogMailer writes messages to the log instead of delivering them. It is
// used in development when no SendGrid key is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("mail not delivered: no provider configured")
	return nil
}
