package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"alfil/internal/book"
	"alfil/internal/config"
	"alfil/internal/engine"
)

func main() {
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bk *book.Book
	if cfg.Book {
		var err error
		if bk, err = book.Default(); err != nil {
			log.Fatal(err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	log.Printf("selfplay: depth %d workers %d seed %d", cfg.Depth, cfg.Workers, seed)

	r := engine.NewRunner(engine.RunnerConfig{
		Depth:    cfg.Depth,
		Workers:  cfg.Workers,
		MaxPlies: cfg.MaxPlies,
		StartFEN: cfg.StartFEN,
	}, bk, rand.New(rand.NewPCG(seed, seed)))

	rec, err := r.Play(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("selfplay: %s (%s, %d book plies) %s", rec.Result, rec.Termination, rec.BookPlies, rec.Moves())
	fmt.Println(rec.PGN)
}
