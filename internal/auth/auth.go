// Package auth owns the user's session: obtaining it through the login
// endpoint, persisting it between runs, and answering the two questions
// the rest of the app asks — "are we signed in?" and "what token do we
// send?". Nothing outside this package writes session state; the one
// mutation other components may trigger is Logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aanand-mishra/students-client/internal/storage"
	"github.com/aanand-mishra/students-client/internal/types"
)

// LoginClient is the one gateway operation this package needs. Declared
// here, on the consumer side, so auth does not depend on the full API
// client.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (types.Session, error)
}

// Manager is the authentication collaborator handed to the app. It keeps
// the current session in memory and mirrors it into persistent storage.
type Manager struct {
	client  LoginClient
	store   storage.Storage
	log     *slog.Logger
	session types.Session
}

// New builds a Manager and restores any previously saved session from
// storage. A restore failure is not fatal — the user just has to sign in
// again — but anything other than "no session saved" is logged.
func New(client LoginClient, store storage.Storage, log *slog.Logger) *Manager {
	m := &Manager{client: client, store: store, log: log}

	session, err := store.LoadSession()
	switch {
	case err == nil:
		m.session = session
		m.log.Info("restored saved session", slog.String("username", session.Username))
	case errors.Is(err, storage.ErrNoSession):
		// first run, or signed out last time
	default:
		m.log.Error("failed to restore session", slog.String("error", err.Error()))
	}

	return m
}

// Login exchanges credentials for a session and persists it. On failure
// the current session (if any) is left untouched.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	session, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := m.store.SaveSession(session); err != nil {
		// The session still works for this run; it just won't survive a
		// restart. Log and carry on.
		m.log.Error("failed to persist session", slog.String("error", err.Error()))
	}

	m.session = session
	m.log.Info("signed in", slog.String("username", session.Username))
	return nil
}

// Logout clears the session both in memory and on disk. Safe to call
// when already signed out.
func (m *Manager) Logout() error {
	m.session = types.Session{}
	if err := m.store.ClearSession(); err != nil {
		return fmt.Errorf("Logout: %w", err)
	}
	m.log.Info("signed out")
	return nil
}

// IsAuthenticated reports whether a usable credential is held: a token
// is present and, when its expiry claim can be read, not yet expired.
func (m *Manager) IsAuthenticated() bool {
	return m.session.Token != "" && !tokenExpired(m.session.Token)
}

// Token returns the current bearer token, or "" when signed out.
func (m *Manager) Token() string {
	if !m.IsAuthenticated() {
		return ""
	}
	return m.session.Token
}

// Session returns the current session for display purposes (greeting,
// signed-in username). Identity fields come from the login response, not
// from token claims.
func (m *Manager) Session() types.Session {
	return m.session
}

// tokenExpired inspects the token's exp claim without verifying the
// signature — the client holds no key, and verification is the server's
// job. An unreadable token or a token without exp is NOT treated as
// expired: we present it and let the server answer 401 if it disagrees.
// This only exists to skip a guaranteed round-trip-and-redirect when the
// expiry is plainly in the past.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
