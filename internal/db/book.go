package db

import (
	"context"

	"alfil/internal/book"
)

// SeedBook inserts entries that are not stored yet and reports how many
// were added. Existing rows keep their position, so authored order survives
// repeated seeding.
func (s *Store) SeedBook(ctx context.Context, entries []book.Entry) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	added := 0
	for _, e := range entries {
		res, execErr := tx.NamedExecContext(ctx, `
			INSERT OR IGNORE INTO book_entries (position_key, move_uci)
			VALUES (:position_key, :move_uci)
		`, e)
		if execErr != nil {
			err = execErr
			return 0, err
		}
		n, rowsErr := res.RowsAffected()
		if rowsErr != nil {
			err = rowsErr
			return 0, err
		}
		added += int(n)
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// BookEntries returns every stored entry in insertion order.
func (s *Store) BookEntries(ctx context.Context) ([]book.Entry, error) {
	var out []book.Entry
	err := s.db.SelectContext(ctx, &out, `
		SELECT position_key, move_uci
		FROM book_entries
		ORDER BY id ASC
	`)
	return out, err
}

func (s *Store) CountBookEntries(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM book_entries`)
	return n, err
}
