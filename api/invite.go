package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"memories-backend/calendar"
	"memories-backend/mail"
)

type inviteRequest struct {
	City      string `json:"city"`
	Place     string `json:"place"`
	Date      string `json:"date"`
	TimeStart string `json:"timeStart"`
	// Time is a legacy alias for TimeStart kept for older clients.
	Time    string `json:"time"`
	TimeEnd string `json:"timeEnd"`
	Email   string `json:"email"`
}

func (h *Handlers) handleSendInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TimeStart == "" {
		req.TimeStart = req.Time
	}

	inv := calendar.Invite{
		City:      strings.TrimSpace(req.City),
		Place:     strings.TrimSpace(req.Place),
		Date:      strings.TrimSpace(req.Date),
		TimeStart: strings.TrimSpace(req.TimeStart),
		TimeEnd:   strings.TrimSpace(req.TimeEnd),
	}
	if missing := inv.MissingFields(); len(missing) > 0 {
		h.writeError(w, http.StatusBadRequest,
			"missing required fields: "+strings.Join(missing, ", "))
		return
	}

	icsText, err := calendar.BuildICS(inv, h.Loc, h.now())
	if err != nil {
		h.Log.Error("failed to build calendar", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid date or time format")
		return
	}

	recipient := strings.TrimSpace(req.Email)
	if recipient == "" {
		recipient = h.Cfg.DefaultRecipient
	}
	recipients := []string{recipient}
	if h.Cfg.SecondaryRecipient != "" && h.Cfg.SecondaryRecipient != recipient {
		recipients = append(recipients, h.Cfg.SecondaryRecipient)
	}

	msg := mail.Message{
		To:      recipients,
		Subject: fmt.Sprintf("💌 Встреча: %s, %s", inv.City, inv.Place),
		HTML: fmt.Sprintf("<p>Скоро увидимся в <b>%s</b>!<br>📍 %s<br>📅 %s<br>⏰ %s–%s</p>",
			inv.City, inv.Place, inv.Date, inv.TimeStart, inv.TimeEnd),
		Plaintext: fmt.Sprintf("Скоро увидимся в %s, %s, %s, %s–%s",
			inv.City, inv.Place, inv.Date, inv.TimeStart, inv.TimeEnd),
		Attachments: []mail.Attachment{{
			Name:    "invite.ics",
			Type:    "text/calendar",
			Content: calendar.EncodeAttachment(icsText),
		}},
	}

	if err := h.Mailer.Send(r.Context(), msg); err != nil {
		h.Log.Error("failed to send invite", zap.Error(err), zap.Strings("to", recipients))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Log.Info("invite sent", zap.Strings("to", recipients), zap.String("date", inv.Date))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Письмо успешно отправлено!",
	})
}
