package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"memories-backend/config"
)

type SendGrid struct {
	apiKey   string
	from     string
	fromName string
	host     string // overrides the SendGrid API host, used by tests
}

func NewSendGrid(cfg *config.Config) *SendGrid {
	return &SendGrid{
		apiKey:   cfg.MailAPIKey,
		from:     cfg.MailFrom,
		fromName: cfg.MailFromName,
	}
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(s.fromName, s.from))
	m.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}
	m.AddPersonalizations(p)

	if msg.Plaintext != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Plaintext))
	}
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	for _, a := range msg.Attachments {
		att := sgmail.NewAttachment()
		att.SetFilename(a.Name)
		att.SetType(a.Type)
		att.SetContent(a.Content)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = "POST"
	client := &sendgrid.Client{Request: request}
	resp, err := client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("call sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: %s", resp.Body)
	}
	return nil
}
