package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memories-backend/imagemeta"
	"memories-backend/model"
)

const maxUploadSize = 20 * 1024 * 1024 // 20 MB

func (h *Handlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxUploadSize {
		h.writeError(w, http.StatusRequestEntityTooLarge, "file size exceeds limit")
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	// The front-end has used both field names across revisions.
	file, header, err := r.FormFile("photo")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "no file uploaded")
			return
		}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	contentType := declaredContentType(header)
	if !imagemeta.Allowed(contentType) {
		h.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported content type %q", contentType))
		return
	}

	data, contentType, err = imagemeta.ReencodeJPEG(data, contentType)
	if err != nil {
		h.Log.Error("failed to re-encode image", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to process image")
		return
	}

	now := h.now()
	key := fmt.Sprintf("memories/%d_%s", now.UnixMilli(), filepath.Base(header.Filename))
	if err := h.Store.PutObject(r.Context(), key, data, contentType); err != nil {
		h.Log.Error("failed to store image", zap.Error(err), zap.String("key", key))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	url := h.Store.ObjectURL(key)

	exifDate := strings.TrimSpace(r.FormValue("exifDate"))
	if exifDate == "" {
		exifDate = imagemeta.CaptureDate(data, now)
	}

	placeTitle := strings.TrimSpace(r.FormValue("placeTitle"))
	if placeTitle == "" {
		placeTitle = "Новое место"
	}

	rec := model.PlaceRecord{
		ID:         newRecordID(now),
		Coords:     parseGPS(r.FormValue("gps")),
		ThumbURL:   url,
		OrigURL:    url,
		PlaceTitle: placeTitle,
		Timestamp:  now.Format("2006-01-02T15:04:05Z07:00"),
		Filename:   header.Filename,
		ExifDate:   exifDate,
		Caption:    strings.TrimSpace(r.FormValue("caption")),
	}
	if err := h.Places.Append(r.Context(), rec); err != nil {
		h.Log.Error("failed to append place record", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"photo":   url,
	})
}

type uploadPhotoRequest struct {
	ImageBase64 string `json:"imageBase64"`
	Filename    string `json:"filename"`
}

func (h *Handlers) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	var req uploadPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ImageBase64 == "" || req.Filename == "" {
		h.writeError(w, http.StatusBadRequest, "missing required fields: imageBase64, filename")
		return
	}

	// Tolerate data-URL payloads like "data:image/jpeg;base64,...".
	b64 := req.ImageBase64
	if i := strings.Index(b64, ","); i >= 0 && strings.HasPrefix(b64, "data:") {
		b64 = b64[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "imageBase64 is not valid base64")
		return
	}

	now := h.now()
	key := fmt.Sprintf("memories/%d_%s", now.UnixMilli(), filepath.Base(req.Filename))
	if err := h.Store.PutObject(r.Context(), key, data, "image/jpeg"); err != nil {
		h.Log.Error("failed to store image", zap.Error(err), zap.String("key", key))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	url := h.Store.ObjectURL(key)

	rec := model.PlaceRecord{
		ID:         newRecordID(now),
		ThumbURL:   url,
		OrigURL:    url,
		PlaceTitle: "Новое место",
		Timestamp:  now.Format("2006-01-02T15:04:05Z07:00"),
		Filename:   req.Filename,
		ExifDate:   imagemeta.CaptureDate(data, now),
	}
	if err := h.Places.Append(r.Context(), rec); err != nil {
		h.Log.Error("failed to append place record", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"url":     url,
	})
}

// newRecordID derives an id from the creation timestamp. The random
// suffix keeps ids unique when two uploads land in the same millisecond.
func newRecordID(now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

func declaredContentType(header *multipart.FileHeader) string {
	ct := header.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func parseGPS(raw string) *model.GeoPoint {
	if raw == "" {
		return nil
	}
	var pt model.GeoPoint
	if err := json.Unmarshal([]byte(raw), &pt); err != nil {
		return nil
	}
	return &pt
}
