// Package storage provides SQLite-based persistence for session results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Result is one finished session.
type Result struct {
	ID        int64
	MapID     string
	Player    string // local user or SSH user name
	Outcome   string // "win", "loss" or "quit"
	Kills     int
	Pickups   int
	Hits      int
	Health    int
	Duration  time.Duration
	Seed      int64
	CreatedAt time.Time
}

// Won reports whether the session ended with every zombie dead.
func (r Result) Won() bool { return r.Outcome == "win" }

// MapStats contains aggregated statistics for a map.
type MapStats struct {
	MapID      string
	Games      int
	Wins       int
	TotalKills int
	BestKills  int
	FastestWin time.Duration // zero if never won
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			kills INTEGER NOT NULL DEFAULT 0,
			pickups INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			health INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_map_id ON results(map_id);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(map_id, outcome, kills DESC, duration_ms);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r Result) (int64, error) {
	if r.MapID == "" {
		return 0, errors.New("storage: result has no map id")
	}
	res, err := s.db.Exec(
		`INSERT INTO results
		 (map_id, player, outcome, kills, pickups, hits, health, duration_ms, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MapID, r.Player, r.Outcome, r.Kills, r.Pickups, r.Hits, r.Health,
		r.Duration.Milliseconds(), r.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const resultColumns = `id, map_id, player, outcome, kills, pickups, hits, health, duration_ms, seed, created_at`

// TopResults retrieves the best results for a map: wins before anything
// else, then most kills, then fastest. An empty mapID covers every map.
func (s *Store) TopResults(mapID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE ? = '' OR map_id = ?
		 ORDER BY outcome = 'win' DESC, kills DESC, duration_ms ASC, id ASC
		 LIMIT ?`,
		mapID, mapID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// RecentResults retrieves the latest results across every map.
func (s *Store) RecentResults(limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recent results: %w", err)
	}
	return scanResults(rows)
}

// ClearResults deletes all results for the given map.
func (s *Store) ClearResults(mapID string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE map_id = ?", mapID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// GetMapStats retrieves aggregated statistics for a specific map.
func (s *Store) GetMapStats(mapID string) (*MapStats, error) {
	all, err := s.stats(`WHERE map_id = ?`, mapID)
	if err != nil {
		return nil, err
	}
	if st, ok := all[mapID]; ok {
		return st, nil
	}
	return &MapStats{MapID: mapID}, nil
}

// GetAllMapStats retrieves statistics for every map that has been played.
func (s *Store) GetAllMapStats() (map[string]*MapStats, error) {
	return s.stats("")
}

func (s *Store) stats(where string, args ...any) (map[string]*MapStats, error) {
	rows, err := s.db.Query(
		`SELECT map_id, COUNT(*),
		        COALESCE(SUM(outcome = 'win'), 0),
		        COALESCE(SUM(kills), 0),
		        COALESCE(MAX(kills), 0),
		        COALESCE(MIN(CASE WHEN outcome = 'win' THEN duration_ms END), 0),
		        MAX(created_at)
		 FROM results `+where+`
		 GROUP BY map_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*MapStats)
	for rows.Next() {
		var st MapStats
		var fastest int64
		var lastPlayed any
		if err := rows.Scan(&st.MapID, &st.Games, &st.Wins, &st.TotalKills, &st.BestKills, &fastest, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.FastestWin = time.Duration(fastest) * time.Millisecond
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.MapID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var ms int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.MapID, &r.Player, &r.Outcome, &r.Kills, &r.Pickups,
			&r.Hits, &r.Health, &ms, &r.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// parseTime handles both time.Time and the string form sqlite returns for
// DATETIME columns.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
