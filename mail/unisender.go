package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"memories-backend/config"
)

const uniSenderEndpoint = "https://go2.unisender.ru/ru/transactional/api/v1/email/send.json"

// UniSender sends through the UniSender Go transactional API. There is
// no official Go SDK, so this talks to the REST endpoint directly.
type UniSender struct {
	apiKey   string
	from     string
	fromName string
	endpoint string
	client   *http.Client
}

func NewUniSender(cfg *config.Config) *UniSender {
	return &UniSender{
		apiKey:   cfg.MailAPIKey,
		from:     cfg.MailFrom,
		fromName: cfg.MailFromName,
		endpoint: uniSenderEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type uniSenderRecipient struct {
	Email string `json:"email"`
}

type uniSenderBody struct {
	HTML      string `json:"html"`
	Plaintext string `json:"plaintext"`
}

type uniSenderAttachment struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type uniSenderMessage struct {
	Recipients  []uniSenderRecipient  `json:"recipients"`
	Subject     string                `json:"subject"`
	FromEmail   string                `json:"from_email"`
	FromName    string                `json:"from_name"`
	Body        uniSenderBody         `json:"body"`
	Attachments []uniSenderAttachment `json:"attachments,omitempty"`
}

type uniSenderRequest struct {
	Message uniSenderMessage `json:"message"`
}

type uniSenderResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (u *UniSender) Send(ctx context.Context, msg Message) error {
	payload := uniSenderRequest{
		Message: uniSenderMessage{
			Subject:   msg.Subject,
			FromEmail: u.from,
			FromName:  u.fromName,
			Body:      uniSenderBody{HTML: msg.HTML, Plaintext: msg.Plaintext},
		},
	}
	for _, to := range msg.To {
		payload.Message.Recipients = append(payload.Message.Recipients, uniSenderRecipient{Email: to})
	}
	for _, a := range msg.Attachments {
		payload.Message.Attachments = append(payload.Message.Attachments, uniSenderAttachment{
			Type:    a.Type,
			Name:    a.Name,
			Content: a.Content,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode unisender request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build unisender request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("call unisender: %w", err)
	}
	defer resp.Body.Close()

	var result uniSenderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("unisender returned a malformed response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 || result.Status == "error" {
		if result.Message != "" {
			return fmt.Errorf("unisender: %s", result.Message)
		}
		return fmt.Errorf("unisender: request failed with status %d", resp.StatusCode)
	}
	return nil
}
