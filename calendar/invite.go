package calendar

import (
	"encoding/base64"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// uidSuffix is the host part of generated event UIDs.
const uidSuffix = "sweet-dreams"

const icsTimeLayout = "20060102T150405"

// Invite is the raw /send-invite form input. Times are local wall-clock
// values in the configured timezone.
type Invite struct {
	City      string
	Place     string
	Date      string // YYYY-MM-DD
	TimeStart string // HH:MM
	TimeEnd   string // HH:MM
}

// MissingFields returns the names of required fields that are empty,
// in a fixed order so error messages are stable.
func (inv Invite) MissingFields() []string {
	var missing []string
	if inv.City == "" {
		missing = append(missing, "city")
	}
	if inv.Place == "" {
		missing = append(missing, "place")
	}
	if inv.Date == "" {
		missing = append(missing, "date")
	}
	if inv.TimeStart == "" {
		missing = append(missing, "timeStart")
	}
	if inv.TimeEnd == "" {
		missing = append(missing, "timeEnd")
	}
	return missing
}

// Times parses Date spans against TimeStart/TimeEnd in loc.
func (inv Invite) Times(loc *time.Location) (start, end time.Time, err error) {
	start, err = time.ParseInLocation("2006-01-02 15:04", inv.Date+" "+inv.TimeStart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start: %w", err)
	}
	end, err = time.ParseInLocation("2006-01-02 15:04", inv.Date+" "+inv.TimeEnd, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end: %w", err)
	}
	return start, end, nil
}

// BuildICS serializes the invite as a single-event VCALENDAR. The event
// carries local DTSTART/DTEND qualified with the location's TZID, a
// fresh UID and a DTSTAMP of now.
func BuildICS(inv Invite, loc *time.Location, now time.Time) (string, error) {
	start, end, err := inv.Times(loc)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodRequest)

	tzid := &ics.KeyValues{Key: "TZID", Value: []string{loc.String()}}

	event := cal.AddEvent(fmt.Sprintf("%s@%s", uuid.NewString(), uidSuffix))
	event.SetDtStampTime(now.In(loc))
	event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsTimeLayout), tzid)
	event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsTimeLayout), tzid)
	event.SetSummary("💖 Встреча")
	event.SetDescription(fmt.Sprintf("Скоро увидимся! %s, %s.", inv.City, inv.Place))
	event.SetLocation(fmt.Sprintf("%s, %s", inv.Place, inv.City))
	event.SetStatus(ics.ObjectStatusConfirmed)
	event.SetSequence(0)
	event.SetTimeTransparency(ics.TransparencyOpaque)

	return cal.Serialize(), nil
}

// EncodeAttachment base64-encodes the serialized calendar for use as a
// mail attachment body.
func EncodeAttachment(icsText string) string {
	return base64.StdEncoding.EncodeToString([]byte(icsText))
}
