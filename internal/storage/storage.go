// Package storage defines the Storage interface — a contract that any
// session-persistence backend must satisfy to work with this application.
//
// The rest of the code depends only on this interface, never on the
// concrete backend. Swapping SQLite for a keychain or a plain file means
// implementing these three methods and changing one line in main.go, and
// tests can pass an in-memory fake instead of touching the filesystem.
package storage

import (
	"errors"

	"github.com/aanand-mishra/students-client/internal/types"
)

// ErrNoSession is the sentinel returned by LoadSession when nobody is
// signed in. Callers should test for it with errors.Is rather than
// matching the message.
var ErrNoSession = errors.New("no saved session")

// Storage is the session-persistence contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly.
type Storage interface {
	// SaveSession persists the signed-in session, replacing any
	// previously saved one. There is at most one session at a time.
	SaveSession(session types.Session) error

	// LoadSession returns the previously saved session, or ErrNoSession
	// if none exists.
	LoadSession() (types.Session, error)

	// ClearSession removes the saved session. Clearing when nothing is
	// saved is not an error.
	ClearSession() error
}
