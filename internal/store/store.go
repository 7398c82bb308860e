package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sqlite connection shared by all components. It is opened at
// startup and injected wherever durable state is needed.
type DB struct {
	Client *sql.DB
}

// New opens the sqlite database at dbPath and ensures the schema exists.
func New(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := InitSchema(context.Background(), db); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{Client: db}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// InitSchema creates the four tables idempotently. Safe to re-run; the
// -init-db startup flag invokes it directly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		role  TEXT NOT NULL CHECK (role IN ('student', 'faculty'))
	);

	CREATE TABLE IF NOT EXISTS sections (
		id          TEXT PRIMARY KEY,
		code        TEXT NOT NULL,
		title       TEXT NOT NULL,
		faculty_id  TEXT NOT NULL REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		section_id  TEXT NOT NULL REFERENCES sections(id),
		token       TEXT NOT NULL,
		start_at    DATETIME NOT NULL,
		expires_at  DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id            TEXT PRIMARY KEY,
		session_id    TEXT NOT NULL REFERENCES sessions(id),
		student_id    TEXT NOT NULL REFERENCES users(id),
		status        TEXT NOT NULL DEFAULT 'present',
		checkin_time  DATETIME NOT NULL,
		method        TEXT NOT NULL DEFAULT 'qr',
		UNIQUE (session_id, student_id)
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_section   ON sessions(section_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_session ON attendance(session_id);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}
