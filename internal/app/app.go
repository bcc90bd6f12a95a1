package app

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"alfil/internal/book"
	"alfil/internal/config"
	"alfil/internal/db"
	"alfil/internal/web"
)

type App struct {
	store *db.Store
	book  *book.Book
	mux   *http.ServeMux

	closeOnce sync.Once
}

// New opens the store, seeds it with the embedded repertoire and reads the
// book back once. Settings already in the store win over cfg.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	bk, err := loadBook(ctx, store, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	h := web.NewHandler(store, bk, newRand(cfg.Seed))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	return &App{
		store: store,
		book:  bk,
		mux:   mux,
	}, nil
}

func loadBook(ctx context.Context, store *db.Store, cfg config.Config) (*book.Book, error) {
	if err := store.InitSettings(ctx, db.Settings{
		SearchDepth:   cfg.Depth,
		SearchWorkers: max(cfg.Workers, 1),
		BookEnabled:   cfg.Book,
	}); err != nil {
		return nil, fmt.Errorf("init settings: %w", err)
	}

	embedded, err := book.Default()
	if err != nil {
		return nil, err
	}
	added, err := store.SeedBook(ctx, embedded.Entries())
	if err != nil {
		return nil, fmt.Errorf("seed book: %w", err)
	}
	bk, err := book.Load(ctx, store)
	if err != nil {
		return nil, err
	}
	total, err := store.CountBookEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("count book entries: %w", err)
	}
	log.Printf("book: %d positions, %d entries (%d new)", bk.Len(), total, added)
	return bk, nil
}

// newRand returns a seeded generator, or a randomly seeded one for seed 0.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func (a *App) Router() http.Handler {
	return a.mux
}

func (a *App) Book() *book.Book {
	return a.book
}

func (a *App) Close() {
	a.closeOnce.Do(func() {
		_ = a.store.Close()
	})
}
