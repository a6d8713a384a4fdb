package mail

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/resend/resend-go/v2"

	"memories-backend/config"
)

type Resend struct {
	client   *resend.Client
	from     string
	fromName string
}

func NewResend(cfg *config.Config) *Resend {
	return &Resend{
		client:   resend.NewClient(cfg.MailAPIKey),
		from:     cfg.MailFrom,
		fromName: cfg.MailFromName,
	}
}

func (r *Resend) Send(ctx context.Context, msg Message) error {
	req := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", r.fromName, r.from),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Plaintext,
	}

	for _, a := range msg.Attachments {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return fmt.Errorf("decode attachment %s: %w", a.Name, err)
		}
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Name,
			Content:     content,
			ContentType: a.Type,
		})
	}

	if _, err := r.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
