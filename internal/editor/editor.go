// Package editor tracks the create/edit dialog: whether it is open,
// which record (if any) is being edited, and the draft form values.
// There is exactly one Editor in the app, which is how the "at most one
// dialog open" rule is kept.
//
// The dialog has three states and these transitions:
//
//	Closed      → Open-Create   OpenCreate(): empty draft
//	Closed      → Open-Edit     OpenEdit(s): draft seeded from s
//	Open-*      → Closed        Close(): cancel or successful submit
//
// The only validation performed here is required-fields on submit —
// everything else is the server's call.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-client/internal/types"
)

// ErrValidation marks a locally rejected submit: a required field is
// empty. Callers test with errors.Is, show the message as a blocking
// notice, and make no network call.
var ErrValidation = errors.New("validation failed")

// Editor is the edit-session state machine.
type Editor struct {
	validate *validator.Validate

	open   bool
	target *types.Student
	draft  types.StudentForm
}

// New returns a closed editor.
func New() *Editor {
	return &Editor{validate: validator.New()}
}

// OpenCreate opens the dialog in create mode with an all-empty draft.
// Opening always resets state, so a stray previous draft can't leak in.
func (e *Editor) OpenCreate() {
	e.open = true
	e.target = nil
	e.draft = types.StudentForm{}
}

// OpenEdit opens the dialog in edit mode, seeding the draft from the
// record's current values. Age is rendered to text because the form is
// all-text; the snapshot of the record is kept so submit knows which id
// to PUT even if the list refreshes underneath the dialog.
func (e *Editor) OpenEdit(student types.Student) {
	snapshot := student
	e.open = true
	e.target = &snapshot
	e.draft = types.StudentForm{
		Name:  student.Name,
		Email: student.Email,
		Age:   strconv.Itoa(student.Age),
	}
}

// Close returns the editor to Closed and discards the draft. Called on
// cancel and after a successful submit; both paths end the same way.
func (e *Editor) Close() {
	e.open = false
	e.target = nil
	e.draft = types.StudentForm{}
}

// IsOpen reports whether a dialog is currently open.
func (e *Editor) IsOpen() bool {
	return e.open
}

// Target returns the record being edited and true in edit mode, or a
// zero Student and false in create mode.
func (e *Editor) Target() (types.Student, bool) {
	if e.target == nil {
		return types.Student{}, false
	}
	return *e.target, true
}

// Draft returns the current form values.
func (e *Editor) Draft() types.StudentForm {
	return e.draft
}

// SetDraft replaces the form values wholesale (the UI re-reads all three
// fields on every edit pass).
func (e *Editor) SetDraft(draft types.StudentForm) {
	e.draft = draft
}

// Validate runs the required-field check on the draft. On failure it
// returns an error wrapping ErrValidation whose message names every
// missing field.
func (e *Editor) Validate() error {
	err := e.validate.Struct(e.draft)
	if err == nil {
		return nil
	}

	validateErrs := err.(validator.ValidationErrors)
	return fmt.Errorf("%w: %s", ErrValidation, validationMessage(validateErrs))
}

// validationMessage converts the validator's per-field errors into one
// human-readable sentence, e.g. "field Name is required, field Age is
// required".
func validationMessage(errs validator.ValidationErrors) string {
	var messages []string

	for _, fieldErr := range errs {
		switch fieldErr.ActualTag() {
		case "required":
			messages = append(messages,
				fmt.Sprintf("field %s is required", fieldErr.Field()))
		default:
			messages = append(messages,
				fmt.Sprintf("field %s is invalid", fieldErr.Field()))
		}
	}

	return strings.Join(messages, ", ")
}
