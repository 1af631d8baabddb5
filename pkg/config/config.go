package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const DefaultJWTSecret = "secret"

var ErrInsecureSecret = errors.Base("JWT_SECRET must be set to a non-default value in production")

type Config struct {
	// Pipeline
	DatabaseURL      string
	LinksDir         string
	LinksPattern     string
	MappingFile      string
	CookiesFile      string
	ReceiveURL       string
	RequestTimeout   time.Duration
	TransferInterval time.Duration
	LogLevel         zerolog.Level

	// Inspection server
	Port               string
	AppEnv             string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	JWTSecret          string
	FrontendURL        string
	AllowedEmails      []string
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "file:115shared_links.db"),
		LinksDir:         getEnv("LINKS_DIR", "./links"),
		LinksPattern:     getEnv("LINKS_PATTERN", "*.txt"),
		MappingFile:      getEnv("MAPPING_FILE", "txt_cid_map.json"),
		CookiesFile:      getEnv("COOKIES_FILE", "115-cookies.txt"),
		ReceiveURL:       getEnv("RECEIVE_URL", "https://webapi.115.com/share/receive"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 30*time.Second),
		TransferInterval: getDuration("TRANSFER_INTERVAL", 0),
		LogLevel:         getLevel("LOG_LEVEL", zerolog.InfoLevel),

		Port:               getEnv("PORT", "8080"),
		AppEnv:             getEnv("APP_ENV", "local"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		JWTSecret:          getEnv("JWT_SECRET", DefaultJWTSecret),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:8080/api/v1/stats"),
		AllowedEmails:      getList("ALLOWED_EMAILS"),
	}
}

// CheckServer rejects settings the inspection API must not run with
func (c *Config) CheckServer() error {
	if c.AppEnv == "production" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.WithStack(ErrInsecureSecret)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getLevel(key string, fallback zerolog.Level) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(getEnv(key, "")))
	if err != nil || lvl == zerolog.NoLevel {
		return fallback
	}
	return lvl
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
