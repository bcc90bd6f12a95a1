package engine

import (
	"github.com/notnil/chess"

	"alfil/internal/board"
)

// gameOutcome prefers the game's own verdict (it tracks repetition and
// move-count draws) and falls back to the current position for mates.
func gameOutcome(g *chess.Game) (chess.Outcome, chess.Method) {
	if out := g.Outcome(); out != chess.NoOutcome {
		return out, g.Method()
	}
	return board.FromPosition(g.Position()).Outcome()
}

func outcomeToResult(out chess.Outcome, method chess.Method) (result, termination string) {
	switch out {
	case chess.WhiteWon:
		result = "1-0"
	case chess.BlackWon:
		result = "0-1"
	case chess.Draw:
		result = "1/2-1/2"
	default:
		result = "*"
	}
	termination = method.String()
	return result, termination
}
