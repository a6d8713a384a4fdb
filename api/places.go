package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"memories-backend/model"
	"memories-backend/storage"
)

func (h *Handlers) handlePlaces(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Places.All())
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"timestamp":   h.now().Format("2006-01-02T15:04:05Z07:00"),
		"placesCount": h.Places.Count(),
	})
}

type updateCaptionRequest struct {
	Coords     *model.GeoPoint `json:"coords"`
	PhotoIndex *int            `json:"photoIndex"`
	Caption    string          `json:"caption"`
}

func (h *Handlers) handleUpdateCaption(w http.ResponseWriter, r *http.Request) {
	var req updateCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Coords == nil {
		h.writeError(w, http.StatusBadRequest, "missing required field: coords")
		return
	}

	photoIndex := -1
	if req.PhotoIndex != nil {
		photoIndex = *req.PhotoIndex
	}

	err := h.Places.UpdateCaption(r.Context(), *req.Coords, photoIndex, req.Caption)
	if errors.Is(err, storage.ErrPlaceNotFound) {
		h.writeError(w, http.StatusNotFound, "no place found at the given coordinates")
		return
	}
	if err != nil {
		h.Log.Error("failed to update caption", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleCleanup drops records that lost their stored object and rewrites
// both copies of the document.
func (h *Handlers) handleCleanup(w http.ResponseWriter, r *http.Request) {
	dropped, err := h.Places.Cleanup(r.Context())
	if err != nil {
		h.Log.Error("failed to clean up places", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"dropped": dropped,
	})
}
