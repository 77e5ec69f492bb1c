// Package app is the session-gated lifecycle controller: it ties
// authentication state to data fetching and routes every user intent
// (refresh, create, update, delete) through the gateway, keeping the
// roster consistent with the server afterwards.
//
// The rules it enforces, in one place:
//
//   - nothing happens while unauthenticated except a redirect to login;
//   - the initial load runs exactly once per sign-in, not once per
//     render pass;
//   - every successful mutation is followed by exactly one authoritative
//     refresh — no local guessing about what the server now holds;
//   - an authorization-denied response from ANY call tears the session
//     down (logout + redirect) and is never shown as a generic error;
//   - deletes go through an explicit confirmation gate first.
//
// The app consumes its collaborators through the narrow interfaces
// below, so tests drive it with fakes and the terminal UI plugs in the
// real ones.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aanand-mishra/students-client/internal/api"
	"github.com/aanand-mishra/students-client/internal/editor"
	"github.com/aanand-mishra/students-client/internal/roster"
	"github.com/aanand-mishra/students-client/internal/types"
)

// Banner messages for mutation failures. Short and operation-specific,
// surfaced through the roster's error slot.
const (
	CreateFailedMessage = "Failed to create student"
	UpdateFailedMessage = "Failed to update student"
	DeleteFailedMessage = "Failed to delete student"
)

// SessionContext is the read-side of the authentication collaborator.
// The app never writes session state except by calling Logout.
type SessionContext interface {
	IsAuthenticated() bool
	Token() string
	Logout() error
}

// Gateway covers the mutating API operations the app routes. Listing
// goes through the roster store, which holds its own narrower view.
type Gateway interface {
	CreateStudent(ctx context.Context, token string, form types.StudentForm) error
	UpdateStudent(ctx context.Context, token string, id int, form types.StudentForm) error
	DeleteStudent(ctx context.Context, token string, id int) error
}

// Navigator is asked to route to the login destination whenever the
// session is absent or torn down. No parameters: the destination is the
// only thing communicated.
type Navigator interface {
	ToLogin()
}

// Confirmer is the blocking user-decision gate in front of deletes. The
// call suspends until the user answers; false means the delete is
// abandoned with no network call.
type Confirmer interface {
	Confirm(prompt string) bool
}

// App wires the guard, store, editor, and gateway together.
type App struct {
	session SessionContext
	gateway Gateway
	roster  *roster.Store
	editor  *editor.Editor
	nav     Navigator
	confirm Confirmer
	log     *slog.Logger

	// loaded tracks the once-per-sign-in initial fetch. It flips back to
	// false on every teardown so the next sign-in loads again.
	loaded bool
}

// New assembles the controller. All collaborators are required.
func New(
	session SessionContext,
	gateway Gateway,
	store *roster.Store,
	ed *editor.Editor,
	nav Navigator,
	confirm Confirmer,
	log *slog.Logger,
) *App {
	return &App{
		session: session,
		gateway: gateway,
		roster:  store,
		editor:  ed,
		nav:     nav,
		confirm: confirm,
		log:     log,
	}
}

// Roster exposes the resource store for rendering.
func (a *App) Roster() *roster.Store { return a.roster }

// Editor exposes the edit session for rendering and draft edits.
func (a *App) Editor() *editor.Editor { return a.editor }

// Sync is the session guard, run at the top of every render cycle. When
// unauthenticated it requests navigation to login and reports false —
// the caller must not render the roster or touch the API. On the
// transition into an authenticated state it triggers the initial load,
// exactly once.
func (a *App) Sync(ctx context.Context) bool {
	if !a.session.IsAuthenticated() {
		a.loaded = false
		a.nav.ToLogin()
		return false
	}

	if !a.loaded {
		a.loaded = true
		a.Refresh(ctx)
	}

	return true
}

// Refresh re-fetches the authoritative list. Authorization denial tears
// the session down; any other failure has already been put in the
// roster's banner by the store and needs nothing further from us.
func (a *App) Refresh(ctx context.Context) {
	if err := a.roster.Refresh(ctx, a.session.Token()); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			a.teardown()
		}
	}
}

// Submit routes the open dialog's draft to create or update, depending
// on whether an edit target is set.
//
// The returned error is non-nil only for the local required-field check
// (wrapping editor.ErrValidation); the caller shows it as a blocking
// notice and the dialog stays open. Every other failure is surfaced
// through the banner, also leaving the dialog open so the user can
// retry or cancel. On success: one refresh, then the dialog closes.
func (a *App) Submit(ctx context.Context) error {
	if !a.editor.IsOpen() {
		return nil
	}

	if err := a.editor.Validate(); err != nil {
		return err
	}

	token := a.session.Token()
	if token == "" {
		a.teardown()
		return nil
	}

	draft := a.editor.Draft()

	var err error
	var failureMessage string
	if target, editing := a.editor.Target(); editing {
		err = a.gateway.UpdateStudent(ctx, token, target.ID, draft)
		failureMessage = UpdateFailedMessage
	} else {
		err = a.gateway.CreateStudent(ctx, token, draft)
		failureMessage = CreateFailedMessage
	}

	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			a.teardown()
			return nil
		}
		a.log.Error("submit failed", slog.String("error", err.Error()))
		a.roster.SetError(failureMessage)
		return nil
	}

	a.Refresh(ctx)
	a.editor.Close()
	return nil
}

// Delete removes a record after the user confirms. No confirmation, no
// call — the list is left exactly as it was.
func (a *App) Delete(ctx context.Context, id int) {
	if !a.confirm.Confirm("Are you sure you want to delete this student?") {
		return
	}

	token := a.session.Token()
	if token == "" {
		a.teardown()
		return
	}

	if err := a.gateway.DeleteStudent(ctx, token, id); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			a.teardown()
			return
		}
		a.log.Error("delete failed", slog.Int("id", id), slog.String("error", err.Error()))
		a.roster.SetError(DeleteFailedMessage)
		return
	}

	a.Refresh(ctx)
}

// Logout is the user-initiated sign-out; it runs the same path as an
// authorization teardown.
func (a *App) Logout() {
	a.teardown()
}

// teardown clears the session and routes to login. This is the single
// exit for both explicit logout and any authorization-denied response;
// no banner is set on this path.
func (a *App) teardown() {
	a.loaded = false
	if err := a.session.Logout(); err != nil {
		a.log.Error("failed to clear session", slog.String("error", err.Error()))
	}
	a.nav.ToLogin()
}
