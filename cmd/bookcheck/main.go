package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"alfil/internal/board"
	"alfil/internal/book"
	"alfil/internal/db"
)

// usage: bookcheck [-db path] [fen]
func main() {
	args := os.Args[1:]
	dbPath := ""
	if len(args) >= 2 && args[0] == "-db" {
		dbPath, args = args[1], args[2:]
	}

	bk, err := loadBook(dbPath)
	if err != nil {
		fmt.Println("load error:", err)
		os.Exit(1)
	}

	b := board.New()
	if fen := strings.TrimSpace(strings.Join(args, " ")); fen != "" {
		if b, err = board.FromFEN(fen); err != nil {
			fmt.Println("fen error:", err)
			os.Exit(1)
		}
	}

	pos := b.Position()
	fmt.Println("book positions:", bk.Len())
	fmt.Println("key:", board.Key(pos))
	moves := bk.Lookup(pos)
	if len(moves) == 0 {
		fmt.Println("not in book")
		return
	}
	for _, m := range moves {
		fmt.Println("candidate:", m)
	}
}

func loadBook(dbPath string) (*book.Book, error) {
	if dbPath == "" {
		return book.Default()
	}
	store, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return book.Load(context.Background(), store)
}
