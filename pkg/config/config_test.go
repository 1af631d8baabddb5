package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "DATABASE_URL", "LINKS_DIR", "MAPPING_FILE", "COOKIES_FILE", "REQUEST_TIMEOUT", "LOG_LEVEL", "ALLOWED_EMAILS")
	t.Setenv("TRANSFER_INTERVAL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "file:115shared_links.db", cfg.DatabaseURL)
	assert.Equal(t, "./links", cfg.LinksDir)
	assert.Equal(t, "txt_cid_map.json", cfg.MappingFile)
	assert.Equal(t, "115-cookies.txt", cfg.CookiesFile)
	assert.Equal(t, time.Duration(0), cfg.TransferInterval)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Empty(t, cfg.AllowedEmails)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "libsql://ledger.turso.io")
	t.Setenv("LINKS_DIR", "/data/links")
	t.Setenv("MAPPING_FILE", "folders.yaml")
	t.Setenv("TRANSFER_INTERVAL", "1500ms")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ALLOWED_EMAILS", " a@example.com, ,b@example.com ")

	cfg := Load()

	assert.Equal(t, "libsql://ledger.turso.io", cfg.DatabaseURL)
	assert.Equal(t, "/data/links", cfg.LinksDir)
	assert.Equal(t, "folders.yaml", cfg.MappingFile)
	assert.Equal(t, 1500*time.Millisecond, cfg.TransferInterval)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AllowedEmails)
}

func TestGetDurationRejectsNegative(t *testing.T) {
	t.Setenv("SOME_INTERVAL", "-5s")
	assert.Equal(t, time.Second, getDuration("SOME_INTERVAL", time.Second))
}

func TestCheckServer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"local with default secret", Config{AppEnv: "local", JWTSecret: DefaultJWTSecret}, false},
		{"production with default secret", Config{AppEnv: "production", JWTSecret: DefaultJWTSecret}, true},
		{"production with empty secret", Config{AppEnv: "production"}, true},
		{"production with real secret", Config{AppEnv: "production", JWTSecret: "f3b1c0de9a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.CheckServer()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInsecureSecret))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
