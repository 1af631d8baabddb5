package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/core/services"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
	"gitlab.com/tozd/go/errors"
)

type HTTPHandler struct {
	service ports.LedgerService
}

func NewHTTPHandler(service ports.LedgerService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// List ledger entries
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	search := r.URL.Query().Get("search")
	sourceFile := r.URL.Query().Get("source_file")

	entries, count, err := h.service.ListEntries(r.Context(), page, limit, search, sourceFile)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("listing ledger")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  entries,
		"total": count,
		"page":  page,
		"limit": limit,
	})
}

// Get one ledger entry by share id
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("share_id")
	if shareID == "" {
		http.Error(w, "Share id missing", http.StatusBadRequest)
		return
	}

	entry, err := h.service.GetEntry(r.Context(), shareID)
	if errors.Is(err, services.ErrEntryNotFound) {
		http.Error(w, "Share not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Stats of the whole ledger
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
