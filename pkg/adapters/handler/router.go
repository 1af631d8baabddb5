package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/share-saver/pkg/config"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
)

// NewRouter creates the read-only ledger inspection router
func NewRouter(cfg *config.Config, service ports.LedgerService) http.Handler {
	h := NewHTTPHandler(service)
	mw := NewMiddleware(cfg)
	authHandler := NewAuthHandler(cfg)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/shares", h.List)
	protectedMux.HandleFunc("GET /api/v1/shares/{share_id}", h.Get)
	protectedMux.HandleFunc("GET /api/v1/stats", h.Stats)

	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mux
}
