package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"memories-backend/config"
	"memories-backend/mail"
	"memories-backend/storage"
)

type Handlers struct {
	Places *storage.PlacesStore
	Store  storage.ObjectStore
	Mailer mail.Mailer
	Cfg    *config.Config
	Log    *zap.Logger
	Loc    *time.Location

	// Now is the clock used for ids, filenames and DTSTAMP. Tests
	// override it; nil means time.Now.
	Now func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Router builds the full HTTP surface with CORS, request logging and
// panic recovery applied before any handler runs.
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.Cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(RequestLogger(h.Log))
	r.Use(Recovery(h.Log))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ICS mail server is running"))
	})
	r.Post("/send-invite", h.handleSendInvite)
	r.Post("/upload", h.handleUpload)
	r.Post("/upload-photo", h.handleUploadPhoto)
	r.Get("/places.json", h.handlePlaces)
	r.Get("/photos", h.handlePlaces)
	r.Get("/health", h.handleHealth)
	r.Post("/update-caption", h.handleUpdateCaption)
	r.Post("/cleanup", h.handleCleanup)

	return r
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
