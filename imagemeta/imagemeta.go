package imagemeta

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	_ "golang.org/x/image/webp"
)

// DateLayout is the display format for capture dates, e.g. "01.06.25".
const DateLayout = "02.01.06"

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// Allowed reports whether the declared content type is a supported
// image format.
func Allowed(contentType string) bool {
	return allowedTypes[contentType]
}

// CaptureDate extracts the EXIF original-capture timestamp and formats
// it as DD.MM.YY. When the image has no EXIF block or the tag cannot be
// parsed, the current date is returned instead.
func CaptureDate(data []byte, now time.Time) string {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return now.Format(DateLayout)
	}
	taken, err := x.DateTime()
	if err != nil {
		return now.Format(DateLayout)
	}
	return taken.Format(DateLayout)
}

// ReencodeJPEG decodes the image and encodes it back as JPEG. HEIC and
// HEIF cannot be decoded without cgo bindings, so those pass through
// unchanged, as do images in formats image.Decode does not recognize.
func ReencodeJPEG(data []byte, contentType string) ([]byte, string, error) {
	if contentType == "image/jpeg" || contentType == "image/jpg" ||
		contentType == "image/heic" || contentType == "image/heif" {
		return data, contentType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType, nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
