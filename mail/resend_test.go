package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"memories-backend/config"
)

func testResend(t *testing.T, endpoint string) *Resend {
	t.Helper()
	r := NewResend(&config.Config{
		MailAPIKey:   "re-key",
		MailFrom:     "from@example.com",
		MailFromName: "Sweet Dreams",
	})
	base, err := url.Parse(endpoint + "/")
	if err != nil {
		t.Fatal(err)
	}
	r.client.BaseURL = base
	return r
}

func TestResendSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer re-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "email-id"})
	}))
	defer srv.Close()

	if err := testResend(t, srv.URL).Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got["from"] != "Sweet Dreams <from@example.com>" {
		t.Errorf("from = %v", got["from"])
	}
	to, _ := got["to"].([]any)
	if len(to) != 1 || to[0] != "to@example.com" {
		t.Errorf("to = %v", got["to"])
	}
	attachments, _ := got["attachments"].([]any)
	if len(attachments) != 1 {
		t.Errorf("attachments = %v", got["attachments"])
	}
}

func TestResendSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid recipient"})
	}))
	defer srv.Close()

	if err := testResend(t, srv.URL).Send(context.Background(), testMessage()); err == nil {
		t.Error("Send() ignored a provider error")
	}
}

func TestResendRejectsBadAttachment(t *testing.T) {
	r := testResend(t, "http://unreachable.invalid")
	msg := testMessage()
	msg.Attachments[0].Content = "%%% not base64 %%%"

	if err := r.Send(context.Background(), msg); err == nil {
		t.Error("Send() accepted a non-base64 attachment")
	}
}
