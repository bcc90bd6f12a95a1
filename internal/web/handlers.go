package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"alfil/internal/board"
	"alfil/internal/db"
	"alfil/internal/engine"
	"alfil/internal/search"
)

type MoveView struct {
	UCI   string `json:"uci"`
	SAN   string `json:"san"`
	Score *int   `json:"score,omitempty"`
}

type EstimateView struct {
	UCI     string  `json:"uci"`
	SAN     string  `json:"san"`
	Percent float64 `json:"percent"`
}

// boardFromRequest parses ?fen=, defaulting to the starting position.
func boardFromRequest(r *http.Request) (*board.Board, error) {
	fen := strings.TrimSpace(r.URL.Query().Get("fen"))
	if fen == "" {
		return board.New(), nil
	}
	b, err := board.FromFEN(fen)
	if err != nil {
		return nil, errors.New("invalid FEN")
	}
	return b, nil
}

// depthFromRequest reads ?depth=, falling back to the stored setting.
func depthFromRequest(r *http.Request, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("depth"))
	if raw == "" {
		return min(fallback, maxDepth), nil
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth > maxDepth {
		return 0, fmt.Errorf("depth must be an integer up to %d", maxDepth)
	}
	return depth, nil
}

func moveView(pos *chess.Position, m *chess.Move) MoveView {
	return MoveView{UCI: m.String(), SAN: chess.AlgebraicNotation{}.Encode(pos, m)}
}

func (h *Handler) handlePosition(w http.ResponseWriter, r *http.Request) {
	b, err := boardFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pos := b.Position()
	out, method := b.Outcome()
	turn := "white"
	if !b.WhiteToMove() {
		turn = "black"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fen":         pos.String(),
		"key":         board.Key(pos),
		"turn":        turn,
		"outcome":     out.String(),
		"termination": method.String(),
		"legal_moves": len(b.LegalMoves()),
		"board":       boardFromPosition(pos),
	})
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	b, err := boardFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	depth, err := depthFromRequest(r, settings.SearchDepth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bk := h.book
	if !settings.BookEnabled {
		bk = nil
	}
	pos := b.Position()
	sel := engine.NewSelector(bk, h, engine.WithWorkers(settings.SearchWorkers))
	choice, err := sel.SelectMove(ctx, b, depth, b.WhiteToMove())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"fen":    pos.String(),
		"source": choice.Source.String(),
		"score":  int(choice.Score),
		"depth":  choice.Result.Depth,
		"nodes":  choice.Result.Nodes,
		"move":   nil,
	}
	if choice.Move != nil {
		resp["move"] = moveView(pos, choice.Move)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleBook(w http.ResponseWriter, r *http.Request) {
	b, err := boardFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pos := b.Position()
	moves := make([]MoveView, 0)
	for _, m := range h.book.Lookup(pos) {
		moves = append(moves, moveView(pos, m))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fen":   pos.String(),
		"key":   board.Key(pos),
		"moves": moves,
	})
}

func (h *Handler) runSearch(w http.ResponseWriter, r *http.Request) (*board.Board, search.Result, bool) {
	ctx := r.Context()
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, search.Result{}, false
	}
	b, err := boardFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, search.Result{}, false
	}
	depth, err := depthFromRequest(r, settings.SearchDepth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, search.Result{}, false
	}

	var res search.Result
	if settings.SearchWorkers > 1 {
		res, err = search.SearchParallel(ctx, b, depth, b.WhiteToMove(), settings.SearchWorkers)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return nil, search.Result{}, false
		}
	} else {
		res = search.Search(b, depth, b.WhiteToMove())
	}
	return b, res, true
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	b, res, ok := h.runSearch(w, r)
	if !ok {
		return
	}
	pos := b.Position()
	entries := make([]MoveView, 0, len(res.Entries))
	for _, e := range res.Entries {
		if e.Move == nil {
			continue
		}
		mv := moveView(pos, e.Move)
		score := int(e.Score)
		mv.Score = &score
		entries = append(entries, mv)
	}
	resp := map[string]any{
		"fen":       pos.String(),
		"depth":     res.Depth,
		"nodes":     res.Nodes,
		"score":     int(res.Best().Score),
		"game_over": res.GameOver(),
		"entries":   entries,
	}
	if res.GameOver() {
		out, method := b.Outcome()
		resp["outcome"] = out.String()
		resp["termination"] = method.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	b, res, ok := h.runSearch(w, r)
	if !ok {
		return
	}
	pos := b.Position()
	var estimates []EstimateView
	for _, e := range engine.EstimateReplies(res, b.WhiteToMove()) {
		mv := moveView(pos, e.Move)
		estimates = append(estimates, EstimateView{UCI: mv.UCI, SAN: mv.SAN, Percent: e.Percent})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fen":       pos.String(),
		"depth":     res.Depth,
		"estimates": estimates,
	})
}

type settingsView struct {
	SearchDepth   int  `json:"search_depth"`
	SearchWorkers int  `json:"search_workers"`
	BookEnabled   bool `json:"book_enabled"`
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.GetSettings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settingsView(s))
}

func (h *Handler) handleSettingsSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current, err := h.store.GetSettings(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// fields missing from the body keep their stored values.
	view := settingsView(current)
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&view); err != nil {
		http.Error(w, "invalid settings: "+err.Error(), http.StatusBadRequest)
		return
	}
	if view.SearchDepth < 0 || view.SearchDepth > maxDepth {
		http.Error(w, fmt.Sprintf("search_depth must be between 0 and %d", maxDepth), http.StatusBadRequest)
		return
	}
	if view.SearchWorkers < 1 {
		http.Error(w, "search_workers must be at least 1", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateSettings(ctx, db.Settings(view)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
