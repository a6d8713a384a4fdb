package imagemeta

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"image/webp", true},
		{"image/heic", true},
		{"image/heif", true},
		{"image/gif", true},
		{"application/pdf", false},
		{"text/html", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.contentType); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestCaptureDateFallsBackToNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	if got := CaptureDate([]byte("not an image"), now); got != "01.06.25" {
		t.Errorf("CaptureDate() = %q, want 01.06.25", got)
	}
}

func TestReencodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}

	data, contentType, err := ReencodeJPEG(buf.Bytes(), "image/png")
	if err != nil {
		t.Fatalf("ReencodeJPEG() error = %v", err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", contentType)
	}
	if _, format, err := image.Decode(bytes.NewReader(data)); err != nil || format != "jpeg" {
		t.Errorf("re-encoded data decodes as %q (err %v), want jpeg", format, err)
	}
}

func TestReencodeJPEGPassesHEICThrough(t *testing.T) {
	src := []byte{0x00, 0x01, 0x02, 0x03}
	data, contentType, err := ReencodeJPEG(src, "image/heic")
	if err != nil {
		t.Fatalf("ReencodeJPEG() error = %v", err)
	}
	if contentType != "image/heic" || !bytes.Equal(data, src) {
		t.Error("HEIC payload was modified")
	}
}
