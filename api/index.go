package handler

import (
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/handler"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/share-saver/pkg/config"
	"github.com/wadjakorntonsri/share-saver/pkg/core/services"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).Level(cfg.LogLevel).With().Timestamp().Logger()

	if err := cfg.CheckServer(); err != nil {
		logger.Fatal().Err(err).Msg("refusing to start")
	}

	// Serverless filesystems are ephemeral, so DATABASE_URL should point at a libsql:// ledger here
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening ledger")
	}

	service := services.NewLedgerService(repo)
	router := handler.NewRouter(cfg, service)
	mux = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
