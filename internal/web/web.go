package web

import (
	"encoding/json"
	"net/http"
	"sync"

	"alfil/internal/book"
	"alfil/internal/db"
	"alfil/internal/engine"
)

// maxDepth caps per-request search depth; material-only search past this is
// slow and no better.
const maxDepth = 6

type Handler struct {
	store *db.Store
	book  *book.Book

	mu  sync.Mutex
	rng engine.Rand
}

func NewHandler(store *db.Store, bk *book.Book, rng engine.Rand) *Handler {
	return &Handler{
		store: store,
		book:  bk,
		rng:   rng,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/position", h.handlePosition)
	mux.HandleFunc("GET /api/move", h.handleMove)
	mux.HandleFunc("GET /api/book", h.handleBook)
	mux.HandleFunc("GET /api/search", h.handleSearch)
	mux.HandleFunc("GET /api/estimate", h.handleEstimate)
	mux.HandleFunc("GET /api/settings", h.handleSettings)
	mux.HandleFunc("POST /api/settings", h.handleSettingsSave)
}

// IntN serialises access to the shared generator so Handler itself can be
// handed to a selector.
func (h *Handler) IntN(n int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.IntN(n)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
