// Package roster holds the in-memory student list and the flags that
// describe it: loading and a user-facing error banner. The list is only
// ever replaced wholesale by a refresh from the server — the one source
// of truth after any mutation. Nothing here synthesizes, patches, or
// removes individual entries.
//
// The store is written from the UI goroutine only; overlapping refreshes
// are possible and the last response to resolve wins, an accepted race
// at this call frequency.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/students-client/internal/api"
	"github.com/aanand-mishra/students-client/internal/types"
)

// FetchFailedMessage is the banner shown when the list cannot be loaded
// for a non-authorization reason.
const FetchFailedMessage = "Failed to load students"

// ListClient is the single gateway operation the store needs.
type ListClient interface {
	ListStudents(ctx context.Context, token string) ([]types.Student, error)
}

// Store is the resource store for the student roster.
type Store struct {
	client ListClient
	log    *slog.Logger

	students []types.Student
	loading  bool
	banner   string
}

// New returns an empty store backed by the given gateway.
func New(client ListClient, log *slog.Logger) *Store {
	return &Store{
		client:   client,
		log:      log,
		students: make([]types.Student, 0),
	}
}

// Refresh replaces the list with the server's current state.
//
// Behavior contract:
//   - no token → no call (the guard should have prevented this)
//   - success → list replaced entirely, banner cleared
//   - authorization denied → returned as api.ErrUnauthorized untouched,
//     no banner: the caller tears the session down instead
//   - any other failure → banner set, previous list kept (stale but
//     visible beats an empty screen)
//
// The loading flag is set for the duration of the call and cleared on
// every path out.
func (s *Store) Refresh(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	s.loading = true
	s.banner = ""
	defer func() { s.loading = false }()

	students, err := s.client.ListStudents(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return err
		}
		s.log.Error("refresh failed", slog.String("error", err.Error()))
		s.banner = FetchFailedMessage
		return fmt.Errorf("Refresh: %w", err)
	}

	s.students = students
	s.log.Debug("roster refreshed", slog.Int("count", len(students)))
	return nil
}

// Students returns the authoritative list as of the last successful
// refresh.
func (s *Store) Students() []types.Student {
	return s.students
}

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool {
	return s.loading
}

// Error returns the current banner message, or "" when there is none.
func (s *Store) Error() string {
	return s.banner
}

// SetError puts a message in the banner slot. Mutation failures are
// surfaced through here so the whole view shares one error surface.
func (s *Store) SetError(msg string) {
	s.banner = msg
}

// ClearError empties the banner slot.
func (s *Store) ClearError() {
	s.banner = ""
}

// Filter derives the display list: records whose name or email contains
// term, compared case-insensitively. A pure function of the current list
// and the term — recomputed on demand, never cached, no server involved.
// The empty term matches everything.
func (s *Store) Filter(term string) []types.Student {
	needle := strings.ToLower(term)

	filtered := make([]types.Student, 0, len(s.students))
	for _, student := range s.students {
		if strings.Contains(strings.ToLower(student.Name), needle) ||
			strings.Contains(strings.ToLower(student.Email), needle) {
			filtered = append(filtered, student)
		}
	}
	return filtered
}
