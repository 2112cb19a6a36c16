// Package mail delivers transactional email through SendGrid.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/shopline/shop-api/internal/core/ports"
)

// ErrMissingAPIKey is returned by NewSendGridMailer when no key is configured.
var ErrMissingAPIKey = errors.New("mail: sendgrid api key is required")

// sender is the subset of the SendGrid client used here.
type sender interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// Config identifies the sending account and address.
type Config struct {
	APIKey   string
	From     string
	FromName string
}

type SendGridMailer struct {
	client sender
	from   *sgmail.Email
}

func NewSendGridMailer(cfg Config) (*SendGridMailer, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return newSendGridMailer(sendgrid.NewSendClient(cfg.APIKey), cfg), nil
}

func newSendGridMailer(client sender, cfg Config) *SendGridMailer {
	return &SendGridMailer{client: client, from: sgmail.NewEmail(cfg.FromName, cfg.From)}
}

// Send delivers msg. Any response outside 2xx is an error.
func (m *SendGridMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(m.from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
