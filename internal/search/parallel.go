package search

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Cloner is a Board that can hand out an independent copy of itself.
type Cloner[B Board] interface {
	Board
	Clone() B
}

// SearchParallel splits the root moves across at most workers goroutines.
// Each branch gets its own clone with the root move already applied, so b
// is never touched concurrently. Root moves are searched with the full window
// as in Search, so the ranked entries match Search exactly.
func SearchParallel[B Cloner[B]](ctx context.Context, b B, depth int, whiteToMove bool, workers int) (Result, error) {
	if depth <= 0 {
		return static(b, 0), nil
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return static(b, depth), nil
	}
	if workers < 1 {
		workers = 1
	}

	entries := make([]Entry, len(moves))
	nodes := make([]int, len(moves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range moves {
		if gctx.Err() != nil {
			break
		}
		branch := b.Clone()
		branch.Push(m)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := &searcher{}
			entries[i] = Entry{
				Score: s.alphaBeta(branch, depth-1, MinScore, MaxScore, !whiteToMove),
				Move:  m,
			}
			nodes[i] = s.nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	// branches skipped after cancellation leave holes in entries.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Depth: depth, Entries: entries}
	for _, n := range nodes {
		res.Nodes += n
	}
	rank(res.Entries, whiteToMove)
	return res, nil
}
