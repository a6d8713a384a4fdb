package calendar

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

var moscow = time.FixedZone("Europe/Moscow", 3*60*60)

func validInvite() Invite {
	return Invite{
		City:      "Москва",
		Place:     "Парк Горького",
		Date:      "2025-06-01",
		TimeStart: "18:00",
		TimeEnd:   "20:00",
	}
}

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Invite)
		want   []string
	}{
		{"complete", func(*Invite) {}, nil},
		{"no city", func(i *Invite) { i.City = "" }, []string{"city"}},
		{"no place", func(i *Invite) { i.Place = "" }, []string{"place"}},
		{"no date", func(i *Invite) { i.Date = "" }, []string{"date"}},
		{"no timeStart", func(i *Invite) { i.TimeStart = "" }, []string{"timeStart"}},
		{"no timeEnd", func(i *Invite) { i.TimeEnd = "" }, []string{"timeEnd"}},
		{
			"everything missing",
			func(i *Invite) { *i = Invite{} },
			[]string{"city", "place", "date", "timeStart", "timeEnd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvite()
			tt.mutate(&inv)
			got := inv.MissingFields()
			if len(got) != len(tt.want) {
				t.Fatalf("MissingFields() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("MissingFields() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTimes(t *testing.T) {
	inv := validInvite()
	start, end, err := inv.Times(moscow)
	if err != nil {
		t.Fatalf("Times() error = %v", err)
	}

	wantStart := time.Date(2025, 6, 1, 18, 0, 0, 0, moscow)
	wantEnd := time.Date(2025, 6, 1, 20, 0, 0, 0, moscow)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestTimesRejectsGarbage(t *testing.T) {
	inv := validInvite()
	inv.Date = "01.06.2025"
	if _, _, err := inv.Times(moscow); err == nil {
		t.Error("Times() accepted a non-ISO date")
	}
}

func TestBuildICS(t *testing.T) {
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	ics, err := BuildICS(validInvite(), moscow, now)
	if err != nil {
		t.Fatalf("BuildICS() error = %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"DTSTART;TZID=Europe/Moscow:20250601T180000",
		"DTEND;TZID=Europe/Moscow:20250601T200000",
		"STATUS:CONFIRMED",
		"SEQUENCE:0",
		"TRANSP:OPAQUE",
		"@sweet-dreams",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("serialized calendar missing %q:\n%s", want, ics)
		}
	}
}

func TestBuildICSUniqueUIDs(t *testing.T) {
	now := time.Now()
	a, err := BuildICS(validInvite(), moscow, now)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildICS(validInvite(), moscow, now)
	if err != nil {
		t.Fatal(err)
	}
	if uidLine(t, a) == uidLine(t, b) {
		t.Error("two invites share a UID")
	}
}

func uidLine(t *testing.T, ics string) string {
	t.Helper()
	for _, line := range strings.Split(ics, "\r\n") {
		if strings.HasPrefix(line, "UID:") {
			return line
		}
	}
	t.Fatalf("no UID line in:\n%s", ics)
	return ""
}

func TestEncodeAttachmentRoundTrip(t *testing.T) {
	ics, err := BuildICS(validInvite(), moscow, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	encoded := EncodeAttachment(ics)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("attachment is not valid base64: %v", err)
	}
	if string(decoded) != ics {
		t.Error("base64 round trip does not reproduce the calendar text")
	}
}
