package engine

import (
	"math"

	"github.com/notnil/chess"

	"alfil/internal/eval"
	"alfil/internal/search"
)

type Estimate struct {
	Move    *chess.Move
	Percent float64
}

// EstimateReplies turns search scores into a rough distribution over the
// replies the side to move would consider. Scores are read so that higher
// is better for that side; harmful moves (below zero) are dropped and the
// weakest survivor is padded down to zero. Returns nil when nothing is left
// to share out, including when every survivor ties.
func EstimateReplies(res search.Result, whiteToMove bool) []Estimate {
	type candidate struct {
		move  *chess.Move
		score eval.Score
	}

	var cands []candidate
	for _, e := range res.Entries {
		if e.Move == nil {
			continue
		}
		score := e.Score
		if !whiteToMove {
			score = -score
		}
		if score < 0 {
			continue
		}
		cands = append(cands, candidate{move: e.Move, score: score})
	}
	if len(cands) == 0 {
		return nil
	}

	floor := cands[0].score
	for _, c := range cands[1:] {
		floor = min(floor, c.score)
	}
	var sum eval.Score
	for _, c := range cands {
		sum += c.score - floor
	}
	if sum == 0 {
		return nil
	}

	out := make([]Estimate, 0, len(cands))
	for _, c := range cands {
		pct := 100 * float64(c.score-floor) / float64(sum)
		out = append(out, Estimate{Move: c.move, Percent: math.Round(pct*100) / 100})
	}
	return out
}
