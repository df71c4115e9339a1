package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jobradar/internal/model"
)

// Ensure RunLog implements model.RunRecorder.
var _ model.RunRecorder = (*RunLog)(nil)

// RunLog records pipeline run outcomes in a SQLite database. Only counters
// and flags are stored; postings never touch disk.
type RunLog struct {
	db *sql.DB
}

// NewRunLog opens (or creates) a SQLite database at dbPath and ensures the
// runs table exists.
func NewRunLog(dbPath string) (*RunLog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at  DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		postings    INTEGER NOT NULL,
		success     INTEGER NOT NULL,
		email_sent  INTEGER NOT NULL,
		message     TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	return &RunLog{db: db}, nil
}

// Record appends one run outcome.
func (l *RunLog) Record(run model.RunRecord) error {
	_, err := l.db.Exec(
		"INSERT INTO runs (started_at, duration_ms, postings, success, email_sent, message) VALUES (?, ?, ?, ?, ?, ?)",
		run.StartedAt.UTC(), run.Duration.Milliseconds(), run.Postings, run.Success, run.EmailSent, run.Message,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Recent returns up to limit run records, newest first.
func (l *RunLog) Recent(limit int) ([]model.RunRecord, error) {
	rows, err := l.db.Query(
		"SELECT started_at, duration_ms, postings, success, email_sent, message FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		var durationMS int64
		if err := rows.Scan(&r.StartedAt, &durationMS, &r.Postings, &r.Success, &r.EmailSent, &r.Message); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database connection.
func (l *RunLog) Close() error {
	return l.db.Close()
}
