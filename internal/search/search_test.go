package search

import (
	"context"
	"errors"
	"testing"

	"github.com/notnil/chess"

	"alfil/internal/board"
	"alfil/internal/eval"
)

var positions = []struct {
	name string
	fen  string
}{
	{"start", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
	{"scholar threat", "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4"},
	{"black hanging queen", "rnb1kbnr/pppp1ppp/8/4p3/4P2q/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 3"},
	{"rook endgame", "8/5k2/8/3r4/8/2R5/5K2/8 w - - 0 1"},
	{"queen vs rook", "6k1/5ppp/8/8/8/8/1r3PPP/3Q2K1 b - - 0 1"},
}

func mustBoard(t *testing.T, fen string) *board.Board {
	t.Helper()
	b, err := board.FromFEN(fen)
	if err != nil {
		t.Fatalf("invalid FEN %q: %v", fen, err)
	}
	return b
}

// minimax is the unpruned reference the alpha-beta results are checked against.
func minimax(b *board.Board, depth int, white bool) eval.Score {
	if depth == 0 {
		return eval.Evaluate(b.Position())
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return eval.Evaluate(b.Position())
	}
	best := worst(white)
	for _, m := range moves {
		b.Push(m)
		v := minimax(b, depth-1, !white)
		b.Pop()
		if better(v, best, white) {
			best = v
		}
	}
	return best
}

func minimaxRoot(b *board.Board, depth int, white bool) (eval.Score, []string) {
	best := worst(white)
	var bestMoves []string
	for _, m := range b.LegalMoves() {
		b.Push(m)
		v := minimax(b, depth-1, !white)
		b.Pop()
		switch {
		case better(v, best, white):
			best = v
			bestMoves = []string{m.String()}
		case v == best:
			bestMoves = append(bestMoves, m.String())
		}
	}
	return best, bestMoves
}

func moveStrings(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Move.String())
	}
	return out
}

func sameMove(a, b *chess.Move) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchMatchesMinimax(t *testing.T) {
	for _, p := range positions {
		for depth := 1; depth <= 3; depth++ {
			b := mustBoard(t, p.fen)
			white := b.WhiteToMove()

			wantScore, wantMoves := minimaxRoot(b, depth, white)
			res := Search(b, depth, white)

			if got := res.Best().Score; got != wantScore {
				t.Fatalf("%s depth %d: best score %d want %d", p.name, depth, got, wantScore)
			}
			if got := moveStrings(res.BestMoves()); !equalStrings(got, wantMoves) {
				t.Fatalf("%s depth %d: best moves %v want %v", p.name, depth, got, wantMoves)
			}
			if len(res.Entries) != len(b.LegalMoves()) {
				t.Fatalf("%s depth %d: %d root entries for %d legal moves", p.name, depth, len(res.Entries), len(b.LegalMoves()))
			}
		}
	}
}

func TestSearchRootScoresAreExact(t *testing.T) {
	for _, p := range positions {
		for depth := 1; depth <= 3; depth++ {
			b := mustBoard(t, p.fen)
			white := b.WhiteToMove()
			res := Search(b, depth, white)

			for _, e := range res.Entries {
				b.Push(e.Move)
				want := minimax(b, depth-1, !white)
				b.Pop()
				if e.Score != want {
					t.Fatalf("%s depth %d: %s scored %d want %d", p.name, depth, e.Move, e.Score, want)
				}
			}
		}
	}
}

func TestSearchHangingQueenScoresLoss(t *testing.T) {
	// Bf1 leaves the queen to Nxh5.
	b := mustBoard(t, positions[1].fen)
	res := Search(b, 2, true)
	for _, e := range res.Entries {
		if e.Move.String() == "c4f1" {
			if e.Score != -90 {
				t.Fatalf("c4f1 scored %d want -90", e.Score)
			}
			return
		}
	}
	t.Fatalf("c4f1 missing from root entries")
}

func TestSearchRestoresBoard(t *testing.T) {
	for _, p := range positions {
		for depth := 0; depth <= 3; depth++ {
			b := mustBoard(t, p.fen)
			before := b.Position()
			fen := before.String()

			Search(b, depth, b.WhiteToMove())

			if b.Position() != before || b.Len() != 0 {
				t.Fatalf("%s depth %d: board not restored (len %d)", p.name, depth, b.Len())
			}
			if b.Position().String() != fen {
				t.Fatalf("%s depth %d: fen changed to %q", p.name, depth, b.Position().String())
			}
		}
	}
}

func TestSearchDepthZeroIsStatic(t *testing.T) {
	for _, depth := range []int{0, -1, -5} {
		b := mustBoard(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
		res := Search(b, depth, true)
		if res.Searched() || res.GameOver() {
			t.Fatalf("depth %d: expected no search, got %+v", depth, res)
		}
		if len(res.Entries) != 1 || res.Entries[0].Move != nil || res.Entries[0].Score != 90 {
			t.Fatalf("depth %d: expected single static entry 90, got %+v", depth, res.Entries)
		}
		if res.BestMoves() != nil {
			t.Fatalf("depth %d: static result should have no best moves", depth)
		}
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want eval.Score
	}{
		{"checkmate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", 0},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 90},
	}

	for _, tt := range tests {
		b := mustBoard(t, tt.fen)
		res := Search(b, 3, b.WhiteToMove())
		if !res.GameOver() || !res.Searched() {
			t.Fatalf("%s: expected game over, got %+v", tt.name, res)
		}
		if res.Best().Score != tt.want || res.Best().Move != nil {
			t.Fatalf("%s: got %+v want score %d and no move", tt.name, res.Best(), tt.want)
		}
	}
}

func TestSearchSingleLegalMove(t *testing.T) {
	for depth := 1; depth <= 4; depth++ {
		b := mustBoard(t, "6rk/8/8/8/8/8/8/7K w - - 0 1")
		res := Search(b, depth, true)
		if len(res.Entries) != 1 {
			t.Fatalf("depth %d: %d entries, want 1", depth, len(res.Entries))
		}
		if got := res.Entries[0].Move.String(); got != "h1h2" {
			t.Fatalf("depth %d: move %s want h1h2", depth, got)
		}
	}
}

func TestSearchOrdering(t *testing.T) {
	for _, p := range positions {
		b := mustBoard(t, p.fen)
		white := b.WhiteToMove()
		res := Search(b, 2, white)
		for i := 1; i < len(res.Entries); i++ {
			if better(res.Entries[i].Score, res.Entries[i-1].Score, white) {
				t.Fatalf("%s: entries out of order at %d: %d then %d", p.name, i, res.Entries[i-1].Score, res.Entries[i].Score)
			}
		}
	}
}

func TestSearchTiesKeepEnumerationOrder(t *testing.T) {
	b := board.New()
	res := Search(b, 1, true)

	legal := b.LegalMoves()
	best := res.BestMoves()
	if len(best) != len(legal) {
		t.Fatalf("all %d opening moves should tie at depth 1, got %d", len(legal), len(best))
	}
	for i := range legal {
		if best[i].Move.String() != legal[i].String() {
			t.Fatalf("tie order changed at %d: %s vs %s", i, best[i].Move, legal[i])
		}
	}
}

func TestSearchSeesRecapture(t *testing.T) {
	// Qxd1 wins the rook at depth 1 but loses the queen to Kxd1 at depth 2.
	const fen = "4k3/8/8/3q4/8/8/8/3RK3 b - - 0 1"

	res := Search(mustBoard(t, fen), 1, false)
	if got := res.Best(); got.Move.String() != "d5d1" || got.Score != -90 {
		t.Fatalf("depth 1: best %v/%d want d5d1/-90", got.Move, got.Score)
	}

	res = Search(mustBoard(t, fen), 2, false)
	if got := res.Best().Score; got != -40 {
		t.Fatalf("depth 2: best score %d want -40", got)
	}
	for _, e := range res.BestMoves() {
		if e.Move.String() == "d5d1" {
			t.Fatalf("depth 2: losing capture d5d1 ranked best")
		}
	}
}

func TestSearchParallelMatchesSearch(t *testing.T) {
	ctx := context.Background()
	for _, p := range positions {
		for depth := 0; depth <= 3; depth++ {
			b := mustBoard(t, p.fen)
			white := b.WhiteToMove()
			before := b.Position()

			want := Search(b, depth, white)
			got, err := SearchParallel(ctx, b, depth, white, 4)
			if err != nil {
				t.Fatalf("%s depth %d: %v", p.name, depth, err)
			}

			if got.Depth != want.Depth || got.Best().Score != want.Best().Score {
				t.Fatalf("%s depth %d: parallel %+v vs sequential %+v", p.name, depth, got.Best(), want.Best())
			}
			if len(got.Entries) != len(want.Entries) {
				t.Fatalf("%s depth %d: %d parallel entries vs %d", p.name, depth, len(got.Entries), len(want.Entries))
			}
			for i := range want.Entries {
				g, w := got.Entries[i], want.Entries[i]
				if g.Score != w.Score || !sameMove(g.Move, w.Move) {
					t.Fatalf("%s depth %d: entry %d is %v/%d, sequential %v/%d", p.name, depth, i, g.Move, g.Score, w.Move, w.Score)
				}
			}
			if b.Position() != before || b.Len() != 0 {
				t.Fatalf("%s depth %d: parallel search touched the board", p.name, depth)
			}
		}
	}
}

func TestSearchParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SearchParallel(ctx, board.New(), 2, true, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
