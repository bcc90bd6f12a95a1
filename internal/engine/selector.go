package engine

import (
	"context"

	"github.com/notnil/chess"

	"alfil/internal/board"
	"alfil/internal/book"
	"alfil/internal/eval"
	"alfil/internal/search"
)

type Source int

const (
	SourceSearch Source = iota
	SourceBook
)

func (s Source) String() string {
	switch s {
	case SourceBook:
		return "book"
	case SourceSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Rand picks an index in [0, n). *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type Choice struct {
	Source Source
	Score  eval.Score
	// Move is nil when the search had nothing to play: depth 0, or no legal
	// moves (see Result.GameOver).
	Move *chess.Move
	// Result is the search behind the choice; empty for book moves.
	Result search.Result
}

// Selector chooses moves for one game. It consults the book until the first
// search-sourced move and never again after that.
type Selector struct {
	book    *book.Book
	rng     Rand
	workers int

	outOfBook bool
}

type Option func(*Selector)

// WithWorkers splits the root search across n goroutines when n > 1.
func WithWorkers(n int) Option {
	return func(s *Selector) {
		s.workers = n
	}
}

// NewSelector returns a selector for a new game. bk may be nil.
func NewSelector(bk *book.Book, rng Rand, opts ...Option) *Selector {
	s := &Selector{book: bk, rng: rng, workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OutOfBook reports whether play has left the repertoire for good.
func (s *Selector) OutOfBook() bool {
	return s.outOfBook || s.book == nil
}

func (s *Selector) SelectMove(ctx context.Context, b *board.Board, depth int, whiteToMove bool) (Choice, error) {
	if !s.OutOfBook() {
		if moves := s.book.Lookup(b.Position()); len(moves) > 0 {
			return Choice{Source: SourceBook, Move: moves[s.rng.IntN(len(moves))]}, nil
		}
	}

	res, err := s.search(ctx, b, depth, whiteToMove)
	if err != nil {
		return Choice{}, err
	}
	s.outOfBook = true

	choice := Choice{Source: SourceSearch, Score: res.Best().Score, Result: res}
	if best := res.BestMoves(); len(best) > 0 {
		choice.Move = best[s.rng.IntN(len(best))].Move
	}
	return choice, nil
}

func (s *Selector) search(ctx context.Context, b *board.Board, depth int, whiteToMove bool) (search.Result, error) {
	if s.workers > 1 {
		return search.SearchParallel(ctx, b, depth, whiteToMove, s.workers)
	}
	return search.Search(b, depth, whiteToMove), nil
}
