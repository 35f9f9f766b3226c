// Package db owns the SQLite database that persists chat sessions.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// filePragmas tune on-disk databases for concurrent access.
const filePragmas = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// DB is an open handle on the session database.
type DB struct {
	*sql.DB
}

// Open creates or opens a SQLite database at the given path, creating
// parent directories as needed.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	sqlDB, err := sql.Open("sqlite", path+filePragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return open(sqlDB)
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	// Every pool connection would otherwise get its own empty database.
	sqlDB.SetMaxOpenConns(1)
	return open(sqlDB)
}

// open pings the connection and applies the schema, closing it on failure.
func open(sqlDB *sql.DB) (*DB, error) {
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	d := &DB{DB: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return d, nil
}

// migrate applies the schema. Statements use IF NOT EXISTS so reruns are safe.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    summary_json TEXT NOT NULL DEFAULT '{}',
    analysis_json TEXT NOT NULL DEFAULT '{}',
    token_count INTEGER NOT NULL DEFAULT 0,
    clarification_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);

CREATE TABLE IF NOT EXISTS session_messages (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('user','assistant','system')),
    content TEXT NOT NULL,
    PRIMARY KEY(session_id, position)
);
`
