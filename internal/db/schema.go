package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// note: as per SQLites's manual suggestions, we do not use 'AUTOINCREMENT' on
// the 'INTEGER PRIMARY KEY' columns. book_entries relies on rowid order to
// keep moves in authored order.
var schemaStmts = []string{
	`PRAGMA journal_mode=WAL;`,
	`PRAGMA foreign_keys=ON;`,
	`CREATE TABLE IF NOT EXISTS book_entries (
		id INTEGER PRIMARY KEY,
		position_key TEXT NOT NULL,
		move_uci TEXT NOT NULL,
		UNIQUE(position_key, move_uci),
		CHECK (trim(position_key) = position_key AND position_key <> ''),
		CHECK (trim(move_uci) = move_uci AND move_uci <> '')
	);`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value
	);`,
	`CREATE INDEX IF NOT EXISTS idx_book_entries_position_key ON book_entries(position_key);`,
}

type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// keep it predictable; this is a single-instance service.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, stmt := range schemaStmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
