package web

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

type SquareView struct {
	Square string `json:"square"`
	Piece  string `json:"piece"`
	Glyph  string `json:"glyph"`
	Light  bool   `json:"light"`
}

// boardFromPosition lays the board out rank 8 first, the way it is drawn.
func boardFromPosition(pos *chess.Position) [][]SquareView {
	board := make([][]SquareView, 0, 8)
	b := pos.Board()

	for r := chess.Rank8; r >= chess.Rank1; r-- {
		row := make([]SquareView, 0, 8)
		for f := chess.FileA; f <= chess.FileH; f++ {
			p := b.Piece(chess.NewSquare(f, r))
			row = append(row, SquareView{
				Square: fmt.Sprintf("%c%d", 'a'+byte(f), int(r)+1),
				Piece:  pieceCode(p),
				Glyph:  pieceGlyph(p),
				// a1 is dark.
				Light: (int(f)+int(r))%2 == 1,
			})
		}
		board = append(board, row)
	}
	return board
}

var glyphs = map[chess.PieceType][2]string{
	chess.King:   {"♔", "♚"},
	chess.Queen:  {"♕", "♛"},
	chess.Rook:   {"♖", "♜"},
	chess.Bishop: {"♗", "♝"},
	chess.Knight: {"♘", "♞"},
	chess.Pawn:   {"♙", "♟"},
}

func pieceGlyph(p chess.Piece) string {
	g, ok := glyphs[p.Type()]
	if p == chess.NoPiece || !ok {
		return ""
	}
	if p.Color() == chess.White {
		return g[0]
	}
	return g[1]
}

func pieceCode(p chess.Piece) string {
	if p == chess.NoPiece {
		return ""
	}
	letter := p.Type().String()
	if p.Color() == chess.White {
		return strings.ToUpper(letter)
	}
	return letter
}
