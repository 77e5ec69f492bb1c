package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/students-client/internal/storage"
	"github.com/aanand-mishra/students-client/internal/types"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "students-client-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "session.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSessionStore(t *testing.T) {
	session := types.Session{
		Token:    "tok-abc",
		UserID:   3,
		Username: "amy",
		Email:    "amy@x.com",
		FullName: "Amy Pond",
	}

	t.Run("load before save returns ErrNoSession", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.LoadSession()
		if !errors.Is(err, storage.ErrNoSession) {
			t.Fatalf("expected ErrNoSession, got %v", err)
		}
	})

	t.Run("save then load round-trips", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.SaveSession(session); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		loaded, err := store.LoadSession()
		if err != nil {
			t.Fatalf("LoadSession failed: %v", err)
		}
		if loaded != session {
			t.Errorf("expected %+v, got %+v", session, loaded)
		}
	})

	t.Run("saving again replaces the previous session", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.SaveSession(session); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		replacement := types.Session{Token: "tok-new", UserID: 9, Username: "bob", Email: "b@x.com"}
		if err := store.SaveSession(replacement); err != nil {
			t.Fatalf("second SaveSession failed: %v", err)
		}

		loaded, err := store.LoadSession()
		if err != nil {
			t.Fatalf("LoadSession failed: %v", err)
		}
		if loaded != replacement {
			t.Errorf("expected the replacement session, got %+v", loaded)
		}
	})

	t.Run("clear removes the session and is idempotent", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.SaveSession(session); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
		if err := store.ClearSession(); err != nil {
			t.Fatalf("ClearSession failed: %v", err)
		}

		_, err := store.LoadSession()
		if !errors.Is(err, storage.ErrNoSession) {
			t.Fatalf("expected ErrNoSession after clear, got %v", err)
		}

		if err := store.ClearSession(); err != nil {
			t.Errorf("clearing twice must not fail: %v", err)
		}
	})

	t.Run("session survives reopening the database", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "students-client-test-*")
		if err != nil {
			t.Fatalf("failed to create temp dir: %v", err)
		}
		t.Cleanup(func() { os.RemoveAll(tempDir) })
		path := filepath.Join(tempDir, "session.db")

		first, err := New(path)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if err := first.SaveSession(session); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
		first.Close()

		second, err := New(path)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer second.Close()

		loaded, err := second.LoadSession()
		if err != nil {
			t.Fatalf("LoadSession after reopen failed: %v", err)
		}
		if loaded != session {
			t.Errorf("expected the saved session after reopen, got %+v", loaded)
		}
	})
}
