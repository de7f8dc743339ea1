// Package store persists candidates and interview sessions in SQLite.
// Records are stored as JSON documents with a few indexed key columns, so
// the domain types can evolve without schema migrations.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound marks a lookup for a record that is not stored.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	id         TEXT PRIMARY KEY,
	job_id     TEXT NOT NULL,
	status     TEXT NOT NULL,
	doc        TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status);

CREATE TABLE IF NOT EXISTS sessions (
	token        TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL,
	candidate_id TEXT NOT NULL,
	status       TEXT NOT NULL,
	doc          TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_candidate ON sessions(candidate_id);

CREATE TABLE IF NOT EXISTS jobs (
	id         TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Open opens (and creates if needed) the SQLite database at path. The
// connection pool is capped at one connection: the pure-Go driver serializes
// writes anyway, and a single connection avoids SQLITE_BUSY under concurrent
// handlers.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
