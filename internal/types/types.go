// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the gateway, storage, editor, and app can all import types without
// depending on each other.
package types

// Student represents one student record as owned by the remote API.
//
// The server assigns the ID; the client never invents or derives one.
// Struct tags serve two purposes:
//
//  1. json:"..."  — field names on the wire, matching the API contract.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty.
type Student struct {
	ID    int    `json:"id"`
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required"`
	Age   int    `json:"age"   validate:"required"`
}

// StudentForm is the text-shaped working copy of a student's fields
// while a create/edit dialog is open. Every field is a string — Age
// included — because that is what the form hands us; the gateway
// coerces Age to an integer at submit time. A StudentForm is
// ephemeral: it lives only while a dialog is open and is never
// persisted.
type StudentForm struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
	Age   string `validate:"required"`
}

// Session is the authenticated user's credential and identity, as
// returned by the login endpoint. Token is the raw bearer token sent
// on every API call; the identity fields exist for display only.
type Session struct {
	Token    string `json:"token"`
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// DisplayName returns the name the UI greets the user by: the full
// name when the server provided one, the username otherwise.
func (s Session) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Username
}
