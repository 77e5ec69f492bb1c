// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The session lives in a single-file database on disk — the terminal
// client's equivalent of a browser's localStorage. SQLite needs no
// server process and no setup beyond the driver, and gives us atomic
// replace semantics for free.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aanand-mishra/students-client/internal/storage"
	"github.com/aanand-mishra/students-client/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at the given path, creates the session
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup.
	//
	// Schema: a single row keyed by the constant id 1 holds the current
	// session. Saving a new session replaces the row; clearing deletes it.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS session (
			id        INTEGER PRIMARY KEY CHECK (id = 1),
			token     TEXT    NOT NULL,
			user_id   INTEGER NOT NULL,
			username  TEXT    NOT NULL,
			email     TEXT    NOT NULL,
			full_name TEXT    NOT NULL,
			saved_at  INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// SaveSession writes the session into the single-row table, replacing
// whatever was there. INSERT OR REPLACE keyed on the constant id makes
// the "at most one session" rule a database constraint rather than a
// code-path promise.
func (s *SQLite) SaveSession(session types.Session) error {
	stmt, err := s.Db.Prepare(`
		INSERT OR REPLACE INTO session (id, token, user_id, username, email, full_name, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("SaveSession: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		session.Token,
		session.UserID,
		session.Username,
		session.Email,
		session.FullName,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("SaveSession: exec: %w", err)
	}

	return nil
}

// LoadSession reads the saved session back. sql.ErrNoRows — the row was
// never written or has been cleared — is translated into the package-level
// storage.ErrNoSession sentinel so callers don't depend on database/sql.
func (s *SQLite) LoadSession() (types.Session, error) {
	stmt, err := s.Db.Prepare(
		"SELECT token, user_id, username, email, full_name FROM session WHERE id = 1",
	)
	if err != nil {
		return types.Session{}, fmt.Errorf("LoadSession: prepare: %w", err)
	}
	defer stmt.Close()

	var session types.Session

	err = stmt.QueryRow().Scan(
		&session.Token,
		&session.UserID,
		&session.Username,
		&session.Email,
		&session.FullName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Session{}, storage.ErrNoSession
		}
		return types.Session{}, fmt.Errorf("LoadSession: scan: %w", err)
	}

	return session, nil
}

// ClearSession deletes the session row. Deleting zero rows is fine —
// logging out twice must not fail.
func (s *SQLite) ClearSession() error {
	stmt, err := s.Db.Prepare("DELETE FROM session WHERE id = 1")
	if err != nil {
		return fmt.Errorf("ClearSession: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec()
	if err != nil {
		return fmt.Errorf("ClearSession: exec: %w", err)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
