// Package search walks the legal move tree with depth limited minimax and
// alpha-beta pruning over the material evaluation.
package search

import (
	"sort"

	"github.com/notnil/chess"

	"alfil/internal/eval"
)

const (
	DefaultDepth = 3

	// MinScore and MaxScore bound the initial alpha-beta window. No material
	// sum can reach them.
	MinScore eval.Score = -10000
	MaxScore eval.Score = 10000
)

// Board is the mutable position the search borrows. Every Push is matched
// by a Pop before Search returns.
type Board interface {
	Position() *chess.Position
	LegalMoves() []*chess.Move
	Push(m *chess.Move)
	Pop()
}

type Entry struct {
	Score eval.Score
	Move  *chess.Move
}

// Result ranks the root moves of one search. Depth is the ply budget that
// was actually used; zero means no search happened and Entries holds only
// the static evaluation.
type Result struct {
	Depth   int
	Entries []Entry
	Nodes   int
}

// Searched reports whether any moves were explored.
func (r Result) Searched() bool {
	return r.Depth > 0
}

// GameOver reports a searched root that had no legal moves (checkmate or
// stalemate; the board tells which).
func (r Result) GameOver() bool {
	return r.Depth > 0 && len(r.Entries) == 1 && r.Entries[0].Move == nil
}

// Best returns the top ranked entry.
func (r Result) Best() Entry {
	if len(r.Entries) == 0 {
		return Entry{}
	}
	return r.Entries[0]
}

// BestMoves returns every entry sharing the top score, in enumeration order.
func (r Result) BestMoves() []Entry {
	if len(r.Entries) == 0 || r.Entries[0].Move == nil {
		return nil
	}
	top := r.Entries[0].Score
	var out []Entry
	for _, e := range r.Entries {
		if e.Score != top {
			break
		}
		out = append(out, e)
	}
	return out
}

// Search ranks the legal moves of b's current position. whiteToMove selects
// the maximizing side at the root. b is restored before Search returns.
func Search(b Board, depth int, whiteToMove bool) Result {
	s := &searcher{}
	res := s.root(b, depth, whiteToMove)
	res.Nodes = s.nodes
	return res
}

type searcher struct {
	nodes int
}

func (s *searcher) root(b Board, depth int, white bool) Result {
	if depth <= 0 {
		return static(b, 0)
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return static(b, depth)
	}

	// Every root move gets the full window so its score is exact; pruning
	// only happens below the root.
	entries := make([]Entry, 0, len(moves))
	for _, m := range moves {
		score := s.child(b, m, depth-1, MinScore, MaxScore, !white)
		entries = append(entries, Entry{Score: score, Move: m})
	}

	rank(entries, white)
	return Result{Depth: depth, Entries: entries}
}

// child scores m from the current node. The deferred Pop keeps the board
// balanced on every exit path.
func (s *searcher) child(b Board, m *chess.Move, depth int, alpha, beta eval.Score, white bool) eval.Score {
	b.Push(m)
	defer b.Pop()
	return s.alphaBeta(b, depth, alpha, beta, white)
}

func (s *searcher) alphaBeta(b Board, depth int, alpha, beta eval.Score, white bool) eval.Score {
	s.nodes++
	if depth <= 0 {
		return eval.Evaluate(b.Position())
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return eval.Evaluate(b.Position())
	}

	best := worst(white)
	for _, m := range moves {
		score := s.child(b, m, depth-1, alpha, beta, !white)
		if better(score, best, white) {
			best = score
		}
		if white {
			alpha = max(alpha, score)
		} else {
			beta = min(beta, score)
		}
		if beta <= alpha {
			break
		}
	}
	return best
}

func static(b Board, depth int) Result {
	return Result{
		Depth:   depth,
		Entries: []Entry{{Score: eval.Evaluate(b.Position())}},
	}
}

func worst(white bool) eval.Score {
	if white {
		return MinScore
	}
	return MaxScore
}

func better(a, b eval.Score, white bool) bool {
	if white {
		return a > b
	}
	return a < b
}

// rank orders entries best first for the side to move, keeping enumeration
// order among equal scores.
func rank(entries []Entry, white bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		return better(entries[i].Score, entries[j].Score, white)
	})
}
