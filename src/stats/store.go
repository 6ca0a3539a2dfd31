package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"selection-capture/src/profile"
)

const schema = `
CREATE TABLE IF NOT EXISTS extraction_stats (
	app       TEXT NOT NULL,
	method    TEXT NOT NULL,
	attempts  INTEGER NOT NULL DEFAULT 0,
	successes INTEGER NOT NULL DEFAULT 0,
	total_ms  REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (app, method)
);`

// StoreKey identifies one persisted aggregate row.
type StoreKey struct {
	App    string
	Method profile.Method
}

// Store persists extraction aggregates to SQLite so adaptive ordering
// survives restarts.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the statistics database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create stats directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open stats database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create stats schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Load reads all persisted aggregates.
func (s *Store) Load() (map[StoreKey]Counts, error) {
	rows, err := s.db.Query(`SELECT app, method, attempts, successes, total_ms FROM extraction_stats`)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	defer rows.Close()

	out := make(map[StoreKey]Counts)
	for rows.Next() {
		var app, method string
		var c Counts
		if err := rows.Scan(&app, &method, &c.Attempts, &c.Successes, &c.TotalMs); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		out[StoreKey{App: app, Method: profile.Method(method)}] = c
	}
	return out, rows.Err()
}

// Upsert writes the current aggregate for one pair.
func (s *Store) Upsert(app string, method profile.Method, c Counts) error {
	_, err := s.db.Exec(`
		INSERT INTO extraction_stats (app, method, attempts, successes, total_ms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(app, method) DO UPDATE SET
			attempts = excluded.attempts,
			successes = excluded.successes,
			total_ms = excluded.total_ms`,
		app, string(method), c.Attempts, c.Successes, c.TotalMs)
	if err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
