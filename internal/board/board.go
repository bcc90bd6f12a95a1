// Package board adapts notnil/chess positions to the push/pop discipline the
// search walks with.
package board

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Board is a stack of positions. The top of the stack is the current
// position; Push and Pop move along the stack without touching the
// positions below the top.
type Board struct {
	stack []*chess.Position
}

func New() *Board {
	return FromPosition(chess.StartingPosition())
}

func FromPosition(pos *chess.Position) *Board {
	return &Board{stack: []*chess.Position{pos}}
}

func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return FromPosition(chess.NewGame(opt).Position()), nil
}

// FromMoves replays space separated UCI moves from the starting position.
func FromMoves(line string) (*Board, error) {
	b := New()
	notation := chess.UCINotation{}
	for _, s := range strings.Fields(line) {
		mv, err := notation.Decode(b.Position(), s)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", s, err)
		}
		if !b.IsLegal(mv) {
			return nil, fmt.Errorf("illegal move %s in %q", s, line)
		}
		b.Push(mv)
	}
	return b, nil
}

func (b *Board) Position() *chess.Position {
	return b.stack[len(b.stack)-1]
}

func (b *Board) LegalMoves() []*chess.Move {
	return b.Position().ValidMoves()
}

// Len reports the number of pushed moves still on the stack.
func (b *Board) Len() int {
	return len(b.stack) - 1
}

func (b *Board) WhiteToMove() bool {
	return b.Position().Turn() == chess.White
}

// Push applies m. m must be legal in the current position; anything else
// is a programming error and panics.
func (b *Board) Push(m *chess.Move) {
	if !b.IsLegal(m) {
		panic(fmt.Sprintf("board: illegal move %v in %s", m, b.Position()))
	}
	b.stack = append(b.stack, b.Position().Update(m))
}

func (b *Board) Pop() {
	if len(b.stack) == 1 {
		panic("board: pop without push")
	}
	b.stack[len(b.stack)-1] = nil
	b.stack = b.stack[:len(b.stack)-1]
}

// Clone returns a board that can be pushed and popped independently. The
// positions already on the stack are shared and must not be queried
// concurrently; only positions pushed onto the clone belong to it alone.
func (b *Board) Clone() *Board {
	return &Board{stack: append([]*chess.Position(nil), b.stack...)}
}

func (b *Board) IsLegal(m *chess.Move) bool {
	if m == nil {
		return false
	}
	for _, legal := range b.LegalMoves() {
		if SameMove(legal, m) {
			return true
		}
	}
	return false
}

func SameMove(a, b *chess.Move) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.S1() == b.S1() && a.S2() == b.S2() && a.Promo() == b.Promo()
}

// Key is the canonical book key of pos: piece placement, side to move,
// castling rights and the en-passant square when an en-passant capture is
// actually available. Move counters are left out so transpositions match.
func Key(pos *chess.Position) string {
	fields := strings.Fields(pos.String())
	if len(fields) < 4 {
		return strings.Join(fields, " ")
	}
	ep := "-"
	if fields[3] != "-" && hasEnPassant(pos) {
		ep = fields[3]
	}
	return strings.Join([]string{fields[0], fields[1], fields[2], ep}, " ")
}

func hasEnPassant(pos *chess.Position) bool {
	for _, m := range pos.ValidMoves() {
		if m.HasTag(chess.EnPassant) {
			return true
		}
	}
	return false
}

// Outcome classifies the current position by itself. Only checkmate and
// stalemate are visible here; history based draws belong to chess.Game.
func (b *Board) Outcome() (chess.Outcome, chess.Method) {
	pos := b.Position()
	switch pos.Status() {
	case chess.Checkmate:
		if pos.Turn() == chess.White {
			return chess.BlackWon, chess.Checkmate
		}
		return chess.WhiteWon, chess.Checkmate
	case chess.Stalemate:
		return chess.Draw, chess.Stalemate
	}
	return chess.NoOutcome, chess.NoMethod
}
