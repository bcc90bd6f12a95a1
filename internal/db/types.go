package db

// Settings are the engine knobs that can change while the service runs.
type Settings struct {
	SearchDepth   int  `db:"search_depth"`
	SearchWorkers int  `db:"search_workers"`
	BookEnabled   bool `db:"book_enabled"`
}
