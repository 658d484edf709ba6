// Package storage provides SQLite-based persistence for player progress,
// win history and collected gems.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/pawn-school/internal/chess/engine"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// WinRecord is one won level in the history.
type WinRecord struct {
	ID        int64
	Profile   string
	SessionID string
	Level     int
	Piece     string
	CreatedAt time.Time
}

// ProfileStats contains aggregated statistics for a profile.
type ProfileStats struct {
	Profile        string
	TotalWins      int
	LevelsUnlocked int
	Gems           int
	LastPlayed     time.Time
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
	// One connection serializes writers from concurrent sessions.
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS progress (
			profile TEXT NOT NULL,
			level_index INTEGER NOT NULL,
			wins INTEGER NOT NULL DEFAULT 0,
			unlocked INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (profile, level_index)
		);

		CREATE TABLE IF NOT EXISTS wins (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile TEXT NOT NULL,
			session_id TEXT NOT NULL,
			level_index INTEGER NOT NULL,
			piece TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_wins_profile ON wins(profile, created_at DESC);

		CREATE TABLE IF NOT EXISTS gems (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile TEXT NOT NULL,
			gem TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_gems_profile ON gems(profile);
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

// SaveProgress stores the wins and unlock flags of every level for profile.
func (s *Store) SaveProgress(profile string, p engine.Progress) error {
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	stmt, err := tx.Prepare(
		`INSERT INTO progress (profile, level_index, wins, unlocked, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile, level_index) DO UPDATE SET
		   wins = excluded.wins,
		   unlocked = excluded.unlocked,
		   updated_at = excluded.updated_at`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare progress upsert: %w", err)
	}
	defer stmt.Close()

	n := max(len(p.Wins), len(p.Unlocked))
	for i := 0; i < n; i++ {
		wins, unlocked := 0, false
		if i < len(p.Wins) {
			wins = p.Wins[i]
		}
		if i < len(p.Unlocked) {
			unlocked = p.Unlocked[i]
		}
		if _, err := stmt.Exec(profile, i, wins, unlocked); err != nil {
			return fmt.Errorf("storage: cannot save progress for level %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit progress: %w", err)
	}
	return nil
}

// LoadProgress returns the saved progress of profile for a catalog of
// levelCount levels. found is false when nothing was saved yet.
func (s *Store) LoadProgress(profile string, levelCount int) (p engine.Progress, found bool, err error) {
	p = engine.Progress{
		Wins:     make([]int, levelCount),
		Unlocked: make([]bool, levelCount),
	}

	rows, err := s.db.Query(
		`SELECT level_index, wins, unlocked FROM progress WHERE profile = ? ORDER BY level_index`,
		profile,
	)
	if err != nil {
		return p, false, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx, wins int
			unlocked  bool
		)
		if err := rows.Scan(&idx, &wins, &unlocked); err != nil {
			return p, false, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		found = true
		if idx < 0 || idx >= levelCount {
			continue
		}
		p.Wins[idx] = wins
		p.Unlocked[idx] = unlocked
	}

	if err := rows.Err(); err != nil {
		return p, false, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return p, found, nil
}

// ClearProgress deletes all progress, win history and gems of profile.
func (s *Store) ClearProgress(profile string) error {
	for _, table := range []string{"progress", "wins", "gems"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE profile = ?", profile); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	return nil
}

// RecordWin appends a won level to the history.
// Returns the ID of the inserted record.
func (s *Store) RecordWin(profile, sessionID string, level int, piece string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO wins (profile, session_id, level_index, piece) VALUES (?, ?, ?, ?)",
		profile, sessionID, level, piece,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record win: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentWins returns the latest wins of profile, newest first.
func (s *Store) RecentWins(profile string, limit int) ([]WinRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, profile, session_id, level_index, piece, created_at
		 FROM wins
		 WHERE profile = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query wins: %w", err)
	}
	defer rows.Close()

	var records []WinRecord
	for rows.Next() {
		var r WinRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Profile, &r.SessionID, &r.Level, &r.Piece, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// AddGem stores a collected gem.
func (s *Store) AddGem(profile, gem string) error {
	if _, err := s.db.Exec("INSERT INTO gems (profile, gem) VALUES (?, ?)", profile, gem); err != nil {
		return fmt.Errorf("storage: cannot add gem: %w", err)
	}
	return nil
}

// Gems returns the collected gems of profile, oldest first.
func (s *Store) Gems(profile string) ([]string, error) {
	rows, err := s.db.Query("SELECT gem FROM gems WHERE profile = ? ORDER BY id", profile)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query gems: %w", err)
	}
	defer rows.Close()

	var gems []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		gems = append(gems, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return gems, nil
}

// Stats retrieves aggregated statistics for a profile.
func (s *Store) Stats(profile string) (*ProfileStats, error) {
	stats := &ProfileStats{Profile: profile}

	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM wins WHERE profile = ?`, profile,
	).Scan(&stats.TotalWins)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count wins: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM progress WHERE profile = ? AND unlocked = 1`, profile,
	).Scan(&stats.LevelsUnlocked)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count unlocked levels: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM gems WHERE profile = ?`, profile,
	).Scan(&stats.Gems)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count gems: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM wins WHERE profile = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		profile,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// Profiles lists every profile with saved progress, sorted by name.
func (s *Store) Profiles() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT profile FROM progress
		 UNION SELECT profile FROM wins
		 UNION SELECT profile FROM gems
		 ORDER BY profile`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list profiles: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
