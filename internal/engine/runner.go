package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/notnil/chess"

	"alfil/internal/board"
	"alfil/internal/book"
	"alfil/internal/search"
)

type RunnerConfig struct {
	Depth    int
	Workers  int
	MaxPlies int
	// StartFEN is the opening position; empty means the standard start.
	StartFEN string
}

type GameRecord struct {
	Result      string
	Termination string
	MovesUCI    []string
	BookPlies   int
	PGN         string
}

// Runner plays the engine against itself, one selector per game.
type Runner struct {
	cfg  RunnerConfig
	book *book.Book
	rng  Rand
}

func NewRunner(cfg RunnerConfig, bk *book.Book, rng Rand) *Runner {
	if cfg.Depth <= 0 {
		cfg.Depth = search.DefaultDepth
	}
	return &Runner{cfg: cfg, book: bk, rng: rng}
}

func (r *Runner) Play(ctx context.Context) (GameRecord, error) {
	game := chess.NewGame()
	if r.cfg.StartFEN != "" {
		opt, err := chess.FEN(r.cfg.StartFEN)
		if err != nil {
			return GameRecord{}, fmt.Errorf("start fen: %w", err)
		}
		game = chess.NewGame(opt)
	}

	sel := NewSelector(r.book, r.rng, WithWorkers(r.cfg.Workers))
	rec := GameRecord{MovesUCI: make([]string, 0, 128)}

	for {
		if err := ctx.Err(); err != nil {
			rec.Result, rec.Termination = "*", "Aborted"
			return rec, err
		}

		if r.cfg.MaxPlies > 0 && len(rec.MovesUCI) >= r.cfg.MaxPlies {
			rec.Result, rec.Termination = "1/2-1/2", "Max plies"
			rec.PGN = game.String()
			log.Printf("runner: %s (%s) after %d plies", rec.Result, rec.Termination, len(rec.MovesUCI))
			return rec, nil
		}

		if out, method := gameOutcome(game); out != chess.NoOutcome {
			rec.Result, rec.Termination = outcomeToResult(out, method)
			rec.PGN = game.String()
			log.Printf("runner: %s (%s) after %d plies", rec.Result, rec.Termination, len(rec.MovesUCI))
			return rec, nil
		}

		bd := board.FromPosition(game.Position())
		choice, err := sel.SelectMove(ctx, bd, r.cfg.Depth, bd.WhiteToMove())
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				rec.Result, rec.Termination = "*", "Aborted"
			}
			return rec, fmt.Errorf("select move: %w", err)
		}
		if choice.Move == nil {
			return rec, fmt.Errorf("engine returned no move at %s", game.Position())
		}

		uci := choice.Move.String()
		if err := game.Move(choice.Move); err != nil {
			return rec, fmt.Errorf("move apply error: %s (%w)", uci, err)
		}
		if choice.Source == SourceBook {
			rec.BookPlies++
		}
		rec.MovesUCI = append(rec.MovesUCI, uci)
		log.Printf("runner: ply %d %s (%s, eval %d, nodes %d)", len(rec.MovesUCI), uci, choice.Source, choice.Score, choice.Result.Nodes)
	}
}

// Moves joins the game moves the way PGN-less tools expect them.
func (g GameRecord) Moves() string {
	return strings.Join(g.MovesUCI, " ")
}
