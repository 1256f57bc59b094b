// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// We use modernc.org/sqlite rather than mattn/go-sqlite3: it's a pure Go
// translation of the SQLite sources, so no CGo and no C toolchain needed for
// cross-compilation. The driver registers itself with database/sql under the
// name "sqlite" via the blank import below.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements both
// repository.SnippetRepository and repository.UserRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Pin the pool to a single connection. Pragmas are per-connection, and
	// a ":memory:" database is per-connection too: with a pool of one, the
	// foreign_keys setting and the migrated schema apply everywhere. SQLite
	// serializes writes regardless.
	conn.SetMaxOpenConns(1)

	// Force an immediate connection so a bad path fails here, not on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets concurrent reads proceed while a write is in flight —
	// important for a web server sharing one database file.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The owner cascade
	// (deleting a user deletes their snippets) depends on this pragma, so
	// it is not optional.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent — safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			created       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// owner_id is ON DELETE CASCADE: removing a user removes every snippet
	// they own in the same statement, with no application-level cleanup.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          TEXT PRIMARY KEY,
			created     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			title       TEXT NOT NULL DEFAULT '',
			code        TEXT NOT NULL DEFAULT '',
			linenos     INTEGER NOT NULL DEFAULT 0,
			language    TEXT NOT NULL DEFAULT 'python',
			style       TEXT NOT NULL DEFAULT 'friendly',
			owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			highlighted TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_created ON snippets(created);
		CREATE INDEX IF NOT EXISTS idx_snippets_owner_id ON snippets(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	return nil
}
