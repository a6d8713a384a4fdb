package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"memories-backend/config"
)

// SMTP delivers over authenticated SMTPS, by default through Mail.ru.
type SMTP struct {
	client   *gomail.Client
	from     string
	fromName string
}

func NewSMTP(cfg *config.Config) (*SMTP, error) {
	client, err := gomail.NewClient(cfg.SMTPHost,
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.SMTPUser),
		gomail.WithPassword(cfg.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("configure smtp client: %w", err)
	}
	return &SMTP{client: client, from: cfg.MailFrom, fromName: cfg.MailFromName}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Plaintext)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	for _, a := range msg.Attachments {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return fmt.Errorf("decode attachment %s: %w", a.Name, err)
		}
		if err := m.AttachReader(a.Name, bytes.NewReader(content),
			gomail.WithFileContentType(gomail.ContentType(a.Type))); err != nil {
			return fmt.Errorf("attach %s: %w", a.Name, err)
		}
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
