package mail

import (
	"context"
	"fmt"

	"memories-backend/config"
)

// Attachment content is carried base64-encoded, which is what every
// provider API accepts on the wire.
type Attachment struct {
	Name    string
	Type    string
	Content string
}

type Message struct {
	To          []string
	Subject     string
	HTML        string
	Plaintext   string
	Attachments []Attachment
}

// Mailer delivers one email. Implementations are interchangeable;
// the provider is chosen once at startup.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New selects the provider implementation named by cfg.MailProvider.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailProvider {
	case "unisender":
		return NewUniSender(cfg), nil
	case "sendgrid":
		return NewSendGrid(cfg), nil
	case "resend":
		return NewResend(cfg), nil
	case "smtp":
		return NewSMTP(cfg)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}
