package roster

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aanand-mishra/students-client/internal/api"
	"github.com/aanand-mishra/students-client/internal/types"
)

// fakeList is a ListClient scripted per test.
type fakeList struct {
	students []types.Student
	err      error
	calls    int
}

func (f *fakeList) ListStudents(ctx context.Context, token string) ([]types.Student, error) {
	f.calls++
	return f.students, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefresh(t *testing.T) {
	amy := types.Student{ID: 1, Name: "Amy", Email: "amy@x.com", Age: 21}
	bob := types.Student{ID: 2, Name: "Bob", Email: "bob@y.com", Age: 25}

	t.Run("success replaces the whole list", func(t *testing.T) {
		client := &fakeList{students: []types.Student{amy, bob}}
		store := New(client, testLogger())

		if err := store.Refresh(context.Background(), "tok"); err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}

		if got := store.Students(); len(got) != 2 {
			t.Fatalf("expected 2 students, got %d", len(got))
		}
		if store.Loading() {
			t.Error("loading flag must be cleared after completion")
		}
		if store.Error() != "" {
			t.Errorf("expected no banner, got %q", store.Error())
		}
	})

	t.Run("no token means no call", func(t *testing.T) {
		client := &fakeList{}
		store := New(client, testLogger())

		if err := store.Refresh(context.Background(), ""); err != nil {
			t.Fatalf("Refresh without token must be a no-op, got %v", err)
		}
		if client.calls != 0 {
			t.Errorf("expected no list call, got %d", client.calls)
		}
	})

	t.Run("failure keeps the previous list and sets the banner", func(t *testing.T) {
		client := &fakeList{students: []types.Student{amy}}
		store := New(client, testLogger())
		if err := store.Refresh(context.Background(), "tok"); err != nil {
			t.Fatalf("seed refresh failed: %v", err)
		}

		client.err = errors.New("connection refused")
		if err := store.Refresh(context.Background(), "tok"); err == nil {
			t.Fatal("expected an error")
		}

		if got := store.Students(); len(got) != 1 || got[0] != amy {
			t.Errorf("previous list must stay visible, got %+v", got)
		}
		if store.Error() != FetchFailedMessage {
			t.Errorf("banner: expected %q, got %q", FetchFailedMessage, store.Error())
		}
		if store.Loading() {
			t.Error("loading flag must be cleared after a failure")
		}
	})

	t.Run("authorization denial passes through without a banner", func(t *testing.T) {
		client := &fakeList{err: api.ErrUnauthorized}
		store := New(client, testLogger())

		err := store.Refresh(context.Background(), "stale")
		if !errors.Is(err, api.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if store.Error() != "" {
			t.Errorf("no banner allowed on the auth path, got %q", store.Error())
		}
	})

	t.Run("a later refresh wins over an earlier one", func(t *testing.T) {
		client := &fakeList{students: []types.Student{amy}}
		store := New(client, testLogger())
		store.Refresh(context.Background(), "tok")

		client.students = []types.Student{bob}
		store.Refresh(context.Background(), "tok")

		if got := store.Students(); len(got) != 1 || got[0] != bob {
			t.Errorf("expected the last response to win, got %+v", got)
		}
	})
}

func TestFilter(t *testing.T) {
	students := []types.Student{
		{ID: 1, Name: "Amy", Email: "amy@x.com", Age: 21},
		{ID: 2, Name: "Bob", Email: "bob@y.com", Age: 25},
		{ID: 3, Name: "Cara", Email: "cara@AMY.org", Age: 30},
	}
	store := New(&fakeList{students: students}, testLogger())
	if err := store.Refresh(context.Background(), "tok"); err != nil {
		t.Fatalf("seed refresh failed: %v", err)
	}

	t.Run("empty term returns everything", func(t *testing.T) {
		if got := store.Filter(""); len(got) != 3 {
			t.Errorf("expected all 3 students, got %d", len(got))
		}
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got := store.Filter("amy")
		if len(got) != 2 {
			t.Fatalf("expected Amy (name) and Cara (email domain), got %d: %+v", len(got), got)
		}
		if got[0].Name != "Amy" || got[1].Name != "Cara" {
			t.Errorf("unexpected matches: %+v", got)
		}
	})

	t.Run("matches email too", func(t *testing.T) {
		got := store.Filter("bob@")
		if len(got) != 1 || got[0].Name != "Bob" {
			t.Errorf("expected only Bob, got %+v", got)
		}
	})

	t.Run("no match yields an empty, non-nil list", func(t *testing.T) {
		got := store.Filter("zzz")
		if got == nil {
			t.Fatal("filtered list must not be nil")
		}
		if len(got) != 0 {
			t.Errorf("expected no matches, got %+v", got)
		}
	})

	t.Run("filtering is pure", func(t *testing.T) {
		store.Filter("amy")
		if len(store.Students()) != 3 {
			t.Error("filtering must not modify the stored list")
		}
	})
}
