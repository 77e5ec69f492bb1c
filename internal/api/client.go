// Package api is the gateway to the remote students API.
//
// Every method maps one user intent onto one authenticated HTTP call
// against the fixed REST contract:
//
//	POST   /api/auth/login      → sign in, returns a bearer token
//	GET    /api/students        → list all students
//	POST   /api/students        → create a student
//	PUT    /api/students/{id}   → replace a student's fields
//	DELETE /api/students/{id}   → delete a student
//
// The gateway does no reshaping of server data and no retrying. Its one
// piece of error classification is authorization: a 401 or 403 from any
// call comes back as ErrUnauthorized so the caller can tear the session
// down instead of showing a generic failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/students-client/internal/types"
)

var (
	// ErrUnauthorized means the server rejected our credential (missing,
	// expired, or insufficient). Test with errors.Is; on this error the
	// session must be torn down, never surfaced as a generic failure.
	ErrUnauthorized = errors.New("authorization denied")

	// ErrInvalidCredentials is returned by Login when the username or
	// password is wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Client is the concrete HTTP gateway. A single Client is safe for
// concurrent use; it holds no per-call state.
type Client struct {
	http    *http.Client
	baseURL string
	log     *slog.Logger
}

// New returns a Client rooted at baseURL (e.g. "http://localhost:8080").
// timeout bounds every call; there is no per-operation override.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// errorEnvelope is the error body the students API writes:
//
//	{ "status": "error", "error": "..." }
//
// The auth endpoints use { "message": "..." } instead, so both shapes
// are decoded here and whichever is present wins.
type errorEnvelope struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// studentPayload is the body sent on create and update. There is no id
// field: the server owns ids, and PUT carries the id in the path.
type studentPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// loginPayload is the body sent to POST /api/auth/login.
type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. A 401 (or 400) from the
// auth endpoint becomes ErrInvalidCredentials; the token inside the
// response is used as-is and never inspected here.
func (c *Client) Login(ctx context.Context, username, password string) (types.Session, error) {
	c.log.Info("logging in", slog.String("username", username))

	body, err := json.Marshal(loginPayload{Username: username, Password: password})
	if err != nil {
		return types.Session{}, fmt.Errorf("Login: marshal: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/login", "", body)
	if err != nil {
		return types.Session{}, fmt.Errorf("Login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return types.Session{}, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return types.Session{}, fmt.Errorf("Login: %w", readError(resp))
	}

	var session types.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return types.Session{}, fmt.Errorf("Login: decode: %w", err)
	}
	if session.Token == "" {
		return types.Session{}, errors.New("Login: server returned no token")
	}

	return session, nil
}

// ListStudents fetches the authoritative list. The array comes back
// exactly as the server sent it — no sorting, no filtering, no merging.
func (c *Client) ListStudents(ctx context.Context, token string) ([]types.Student, error) {
	c.log.Debug("listing students")

	resp, err := c.send(ctx, http.MethodGet, "/api/students", token, nil)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("ListStudents: %w", err)
	}

	var students []types.Student
	if err := json.NewDecoder(resp.Body).Decode(&students); err != nil {
		return nil, fmt.Errorf("ListStudents: decode: %w", err)
	}

	return students, nil
}

// CreateStudent POSTs a new record built from the draft form. Age is
// coerced from its text form here; a non-numeric age fails the operation
// the same way a server rejection would.
func (c *Client) CreateStudent(ctx context.Context, token string, form types.StudentForm) error {
	payload, err := coerce(form)
	if err != nil {
		return fmt.Errorf("CreateStudent: %w", err)
	}

	c.log.Info("creating student", slog.String("name", payload.Name))

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("CreateStudent: marshal: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/students", token, body)
	if err != nil {
		return fmt.Errorf("CreateStudent: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusCreated, http.StatusOK); err != nil {
		return fmt.Errorf("CreateStudent: %w", err)
	}

	return nil
}

// UpdateStudent PUTs the full set of fields to the record's path. There
// is no partial patch: every call replaces name, email, and age.
func (c *Client) UpdateStudent(ctx context.Context, token string, id int, form types.StudentForm) error {
	payload, err := coerce(form)
	if err != nil {
		return fmt.Errorf("UpdateStudent: %w", err)
	}

	c.log.Info("updating student", slog.Int("id", id))

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("UpdateStudent: marshal: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPut, "/api/students/"+strconv.Itoa(id), token, body)
	if err != nil {
		return fmt.Errorf("UpdateStudent: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return fmt.Errorf("UpdateStudent: %w", err)
	}

	return nil
}

// DeleteStudent removes the record. The caller is responsible for having
// confirmed the deletion with the user before this is invoked.
func (c *Client) DeleteStudent(ctx context.Context, token string, id int) error {
	c.log.Info("deleting student", slog.Int("id", id))

	resp, err := c.send(ctx, http.MethodDelete, "/api/students/"+strconv.Itoa(id), token, nil)
	if err != nil {
		return fmt.Errorf("DeleteStudent: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK, http.StatusNoContent); err != nil {
		return fmt.Errorf("DeleteStudent: %w", err)
	}

	return nil
}

// send builds and executes one HTTP request. Every request carries a
// fresh X-Request-ID so a call can be matched between client logs and
// server logs; authenticated calls carry the bearer token.
func (c *Client) send(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return resp, nil
}

// checkStatus classifies a response. 401/403 always mean ErrUnauthorized,
// regardless of which operation was running; any status outside the
// accepted set becomes an error carrying the server's own message.
func checkStatus(resp *http.Response, accepted ...int) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	for _, code := range accepted {
		if resp.StatusCode == code {
			return nil
		}
	}
	return readError(resp)
}

// readError extracts the server's error message from a failed response,
// falling back to the bare status when the body isn't our envelope.
func readError(resp *http.Response) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			return fmt.Errorf("server: %s (%s)", envelope.Error, resp.Status)
		}
		if envelope.Message != "" {
			return fmt.Errorf("server: %s (%s)", envelope.Message, resp.Status)
		}
	}
	return fmt.Errorf("server returned %s", resp.Status)
}

// coerce turns the text-shaped draft into the wire payload. Age is the
// only conversion: plain base-10, no locale handling. Required-field
// checks happen before the form ever reaches the gateway, so an empty
// string here is a caller bug and falls out as a parse error.
func coerce(form types.StudentForm) (studentPayload, error) {
	age, err := strconv.Atoi(strings.TrimSpace(form.Age))
	if err != nil {
		return studentPayload{}, fmt.Errorf("age %q is not a number", form.Age)
	}
	return studentPayload{
		Name:  form.Name,
		Email: form.Email,
		Age:   age,
	}, nil
}
