package db

import (
	"context"
	"strconv"
)

// InitSettings stores defaults for every key that has no value yet.
func (s *Store) InitSettings(ctx context.Context, defaults Settings) error {
	stmt := `INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`
	for key, value := range settingValues(defaults) {
		if _, err := s.db.ExecContext(ctx, stmt, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	rows := []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT key, CAST(value AS TEXT) AS value
		FROM settings
	`); err != nil {
		return Settings{}, err
	}
	settings := Settings{
		SearchDepth:   3,
		SearchWorkers: 1,
		BookEnabled:   true,
	}
	for _, row := range rows {
		switch row.Key {
		case "search_depth":
			if v, err := strconv.Atoi(row.Value); err == nil {
				settings.SearchDepth = v
			}
		case "search_workers":
			if v, err := strconv.Atoi(row.Value); err == nil {
				settings.SearchWorkers = v
			}
		case "book_enabled":
			if v, err := strconv.ParseBool(row.Value); err == nil {
				settings.BookEnabled = v
			}
		}
	}
	return settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, settings Settings) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for key, value := range settingValues(settings) {
		if _, err = tx.ExecContext(ctx, upsert, key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// booleans are stored as 0/1 so CAST(value AS TEXT) parses with ParseBool.
func settingValues(s Settings) map[string]int {
	book := 0
	if s.BookEnabled {
		book = 1
	}
	return map[string]int{
		"search_depth":   s.SearchDepth,
		"search_workers": s.SearchWorkers,
		"book_enabled":   book,
	}
}
