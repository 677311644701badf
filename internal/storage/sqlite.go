// Package storage provides SQLite-based persistence for conversion history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Run statuses.
const (
	StatusOK       = "ok"
	StatusFailed   = "failed"
	StatusFiltered = "filtered"
	StatusSkipped  = "skipped"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one generated (or attempted) chart.
type Run struct {
	ID          int64
	File        string
	From        string
	To          string
	Description string
	Difficulty  string
	Meter       int
	Seed        uint64
	Rows        int
	Steps       int
	Status      string
	Error       string // empty unless Status is failed or skipped
	Duration    time.Duration
	CreatedAt   time.Time
}

// StyleStats contains aggregated statistics for one target style.
type StyleStats struct {
	To        string
	Runs      int
	Failed    int
	Steps     int64
	AvgSteps  float64
	LastRunAt time.Time
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

	// parallel conversions share one writer
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file TEXT NOT NULL,
			from_style TEXT NOT NULL,
			to_style TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT '',
			meter INTEGER NOT NULL DEFAULT 0,
			seed TEXT NOT NULL DEFAULT '',
			row_count INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_file ON runs(file);
		CREATE INDEX IF NOT EXISTS idx_runs_to ON runs(to_style);
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

// SaveRun records a conversion. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	var errText sql.NullString
	if r.Error != "" {
		errText = sql.NullString{String: r.Error, Valid: true}
	}

	// seeds use all 64 bits, which INTEGER cannot hold
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (file, from_style, to_style, description, difficulty, meter, seed, row_count, steps, status, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.File, r.From, r.To, r.Description, r.Difficulty, r.Meter,
		strconv.FormatUint(r.Seed, 10), r.Rows, r.Steps, r.Status, errText, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, file, from_style, to_style, description, difficulty, meter,
		seed, row_count, steps, status, error, duration_ms, created_at`

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RunsForFile retrieves the most recent runs for one chart file.
func (s *Store) RunsForFile(path string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE file = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		path, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			seed       string
			errText    sql.NullString
			durationMs int64
			createdAt  any
		)
		if err := rows.Scan(
			&r.ID, &r.File, &r.From, &r.To, &r.Description, &r.Difficulty, &r.Meter,
			&seed, &r.Rows, &r.Steps, &r.Status, &errText, &durationMs, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.Seed, _ = strconv.ParseUint(seed, 10, 64)
		if errText.Valid {
			r.Error = errText.String
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Stats retrieves aggregated statistics per target style.
func (s *Store) Stats() (map[string]*StyleStats, error) {
	rows, err := s.db.Query(
		`SELECT to_style, COUNT(*), SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
		        SUM(steps), AVG(steps), MAX(created_at)
		 FROM runs
		 GROUP BY to_style`,
		StatusFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*StyleStats)
	for rows.Next() {
		var st StyleStats
		var lastRun any
		if err := rows.Scan(&st.To, &st.Runs, &st.Failed, &st.Steps, &st.AvgSteps, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRunAt = parseTime(lastRun)
		stats[st.To] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes the whole history.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes.
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
