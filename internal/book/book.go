// Package book holds the opening repertoire as an immutable table keyed by
// position.
package book

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/notnil/chess"

	"alfil/internal/board"
)

//go:embed repertoire.txt
var repertoire string

// Entry is one authored (position, move) pair.
type Entry struct {
	Key  string `db:"position_key"`
	Move string `db:"move_uci"`
}

// Source provides stored book entries, e.g. the SQLite store.
type Source interface {
	BookEntries(ctx context.Context) ([]Entry, error)
}

// Book maps canonical position keys to the UCI moves authored for them. It
// is never modified after construction and is safe to share.
type Book struct {
	moves map[string][]string
}

// Default builds the embedded repertoire.
func Default() (*Book, error) {
	return FromLines(ParseLines(repertoire))
}

// ParseLines splits text into opening lines, skipping blanks and # comments.
func ParseLines(text string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// FromLines replays every line from the starting position and records each
// move under the key of the position it was played from.
func FromLines(lines []string) (*Book, error) {
	b := &Book{moves: make(map[string][]string)}
	notation := chess.UCINotation{}
	for _, line := range lines {
		bd := board.New()
		for _, s := range strings.Fields(line) {
			mv, err := notation.Decode(bd.Position(), s)
			if err != nil || !bd.IsLegal(mv) {
				return nil, fmt.Errorf("book line %q: illegal move %s", line, s)
			}
			b.add(board.Key(bd.Position()), s)
			bd.Push(mv)
		}
	}
	return b, nil
}

func FromEntries(entries []Entry) *Book {
	b := &Book{moves: make(map[string][]string)}
	for _, e := range entries {
		b.add(strings.TrimSpace(e.Key), strings.TrimSpace(e.Move))
	}
	return b
}

// Load reads the whole table from src once.
func Load(ctx context.Context, src Source) (*Book, error) {
	entries, err := src.BookEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	return FromEntries(entries), nil
}

func (b *Book) add(key, move string) {
	if key == "" || move == "" {
		return
	}
	for _, existing := range b.moves[key] {
		if existing == move {
			return
		}
	}
	b.moves[key] = append(b.moves[key], move)
}

// Lookup returns the book moves for pos in authored order, or nil when the
// position is not in the book. Stored moves that are not legal in pos are
// ignored.
func (b *Book) Lookup(pos *chess.Position) []*chess.Move {
	if b == nil || pos == nil {
		return nil
	}
	stored := b.moves[board.Key(pos)]
	if len(stored) == 0 {
		return nil
	}

	legal := make(map[string]*chess.Move)
	for _, m := range pos.ValidMoves() {
		legal[m.String()] = m
	}
	var out []*chess.Move
	for _, s := range stored {
		if m, ok := legal[s]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Len is the number of positions in the book.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.moves)
}

// Entries lists the table sorted by key, moves in authored order.
func (b *Book) Entries() []Entry {
	keys := make([]string, 0, len(b.moves))
	for k := range b.moves {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Entry
	for _, k := range keys {
		for _, m := range b.moves[k] {
			out = append(out, Entry{Key: k, Move: m})
		}
	}
	return out
}
