// Package eval scores positions by material alone.
package eval

import "github.com/notnil/chess"

// Score is signed material balance; positive favours white.
type Score int

var pieceValues = map[chess.PieceType]Score{
	chess.Pawn:   10,
	chess.Knight: 30,
	chess.Bishop: 30,
	chess.Rook:   50,
	chess.Queen:  90,
	// kings are never captured; the value only keeps the sum symmetric.
	chess.King: 900,
}

// PieceValue returns the signed value of p, zero for chess.NoPiece.
func PieceValue(p chess.Piece) Score {
	if p == chess.NoPiece {
		return 0
	}
	v := pieceValues[p.Type()]
	if p.Color() == chess.Black {
		return -v
	}
	return v
}

func Evaluate(pos *chess.Position) Score {
	b := pos.Board()
	var total Score
	for sq := chess.A1; sq <= chess.H8; sq++ {
		total += PieceValue(b.Piece(sq))
	}
	return total
}
