package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"memories-backend/api"
	"memories-backend/config"
	"memories-backend/mail"
	"memories-backend/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	objectStore, err := storage.NewMinioStore(cfg)
	if err != nil {
		logger.Fatal("failed to connect to object store", zap.Error(err))
	}

	places := storage.NewPlacesStore(objectStore, cfg.PlacesFile, logger)
	if err := places.Restore(context.Background()); err != nil {
		logger.Fatal("failed to restore places document", zap.Error(err))
	}

	mailer, err := mail.New(cfg)
	if err != nil {
		logger.Fatal("failed to configure mail provider", zap.Error(err))
	}

	handlers := &api.Handlers{
		Places: places,
		Store:  objectStore,
		Mailer: mailer,
		Cfg:    cfg,
		Log:    logger,
		Loc:    loc,
	}

	logger.Info("starting server",
		zap.String("port", cfg.Port),
		zap.String("mail_provider", cfg.MailProvider),
		zap.Int("places", places.Count()))

	if err := http.ListenAndServe(":"+cfg.Port, handlers.Router()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
