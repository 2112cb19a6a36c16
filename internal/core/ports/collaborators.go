package ports

import (
	"context"
	"encoding/json"
	"time"
)

// MailMessage is a single outbound email.
type MailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// Throttle admits at most one call per key within window.
type Throttle interface {
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}

// ExternalCatalog fetches product data from a third-party API.
type ExternalCatalog interface {
	Fetch(ctx context.Context) (json.RawMessage, error)
}
