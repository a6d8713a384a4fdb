package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries every environment-supplied setting. It is built once in
// main and passed into component constructors so nothing reads the
// process environment after startup.
type Config struct {
	Port string

	MailProvider       string // unisender | sendgrid | resend | smtp
	MailAPIKey         string
	MailFrom           string
	MailFromName       string
	DefaultRecipient   string
	SecondaryRecipient string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3PublicURL string // base URL for stored objects, e.g. https://s3.example.com/bucket

	PlacesFile     string
	Timezone       string
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port: getenv("PORT", "3000"),

		MailProvider:       getenv("MAIL_PROVIDER", "unisender"),
		MailAPIKey:         os.Getenv("MAIL_API_KEY"),
		MailFrom:           os.Getenv("MAIL_FROM"),
		MailFromName:       getenv("MAIL_FROM_NAME", "Sweet Dreams"),
		DefaultRecipient:   os.Getenv("DEFAULT_RECIPIENT"),
		SecondaryRecipient: os.Getenv("SECONDARY_RECIPIENT"),

		SMTPHost:     getenv("SMTP_HOST", "smtp.mail.ru"),
		SMTPPort:     getenvInt("SMTP_PORT", 465),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    getenv("S3_BUCKET", "memories"),
		S3UseSSL:    getenv("S3_USE_SSL", "true") == "true",
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		PlacesFile: getenv("PLACES_FILE", "places.json"),
		Timezone:   getenv("TIMEZONE", "Europe/Moscow"),
	}

	origins := getenv("ALLOWED_ORIGINS",
		"http://localhost:5500,http://127.0.0.1:5500,http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.S3Endpoint == "" {
		return nil, fmt.Errorf("S3_ENDPOINT is required")
	}
	if cfg.MailFrom == "" {
		return nil, fmt.Errorf("MAIL_FROM is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
