// Package ui is the terminal front end: a small command loop over the
// controller. Everything here is presentation — rendering the roster,
// prompting for form fields, and the y/N gates. No API calls and no
// session writes happen in this package; those all go through the app.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aanand-mishra/students-client/internal/api"
	"github.com/aanand-mishra/students-client/internal/app"
	"github.com/aanand-mishra/students-client/internal/auth"
	"github.com/aanand-mishra/students-client/internal/types"
)

// Terminal drives the interactive session. It implements app.Navigator
// (ToLogin) and app.Confirmer (Confirm).
type Terminal struct {
	app  *app.App
	auth *auth.Manager
	in   *bufio.Scanner
	out  io.Writer

	search string
}

// New builds a Terminal reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Bind attaches the controller and session manager. Separate from New
// because the app itself needs the Terminal (as Navigator/Confirmer)
// at construction time.
func (t *Terminal) Bind(a *app.App, m *auth.Manager) {
	t.app = a
	t.auth = m
}

// ToLogin implements app.Navigator. In a terminal there is no route to
// push; the next loop iteration lands on the login prompt, so this just
// tells the user why.
func (t *Terminal) ToLogin() {
	fmt.Fprintln(t.out, "-- session ended, please sign in --")
}

// Confirm implements app.Confirmer with a blocking y/N prompt. Anything
// but an explicit yes is a no.
func (t *Terminal) Confirm(prompt string) bool {
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	answer := strings.ToLower(strings.TrimSpace(t.readLine()))
	return answer == "y" || answer == "yes"
}

// Run is the main loop: guard, render, one command, repeat. Returns when
// the user quits or input ends.
func (t *Terminal) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if !t.app.Sync(ctx) {
			if !t.login(ctx) {
				return nil
			}
			continue
		}

		t.render()

		fmt.Fprint(t.out, "> ")
		line, ok := t.read()
		if !ok {
			return nil
		}

		if done := t.dispatch(ctx, line); done {
			return nil
		}
	}
	return ctx.Err()
}

func (t *Terminal) dispatch(ctx context.Context, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "", "help":
		t.help()
	case "add":
		t.app.Editor().OpenCreate()
		t.dialog(ctx)
	case "edit":
		student, ok := t.find(arg)
		if !ok {
			return false
		}
		t.app.Editor().OpenEdit(student)
		t.dialog(ctx)
	case "del":
		student, ok := t.find(arg)
		if !ok {
			return false
		}
		t.app.Delete(ctx, student.ID)
	case "search":
		t.search = arg
	case "refresh":
		t.app.Refresh(ctx)
	case "logout":
		t.app.Logout()
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(t.out, "unknown command %q (try: help)\n", cmd)
	}
	return false
}

// login prompts for credentials until sign-in succeeds. An empty
// username quits the program.
func (t *Terminal) login(ctx context.Context) bool {
	for {
		fmt.Fprint(t.out, "username (empty to quit): ")
		username, ok := t.read()
		if !ok || strings.TrimSpace(username) == "" {
			return false
		}
		fmt.Fprint(t.out, "password: ")
		password, ok := t.read()
		if !ok {
			return false
		}

		err := t.auth.Login(ctx, strings.TrimSpace(username), password)
		if err == nil {
			return true
		}
		if errors.Is(err, api.ErrInvalidCredentials) {
			fmt.Fprintln(t.out, "invalid username or password, try again")
			continue
		}
		fmt.Fprintf(t.out, "login failed: %v\n", err)
	}
}

// dialog walks the open create/edit form: prompt for the three fields,
// submit, and repeat while the dialog stays open (validation notice or
// failed save). A cancel at the form discards the draft with no call.
func (t *Terminal) dialog(ctx context.Context) {
	ed := t.app.Editor()

	for ed.IsOpen() {
		draft, cancelled := t.promptDraft(ed.Draft())
		if cancelled {
			ed.Close()
			fmt.Fprintln(t.out, "cancelled")
			return
		}
		ed.SetDraft(draft)

		if err := t.app.Submit(ctx); err != nil {
			// Local validation notice: dialog stays open, nothing was sent.
			fmt.Fprintf(t.out, "!! %v\n", err)
			continue
		}

		if ed.IsOpen() {
			// The save failed server-side (banner is set). Let the user
			// decide between another attempt and giving up.
			if !t.Confirm("Save failed. Try again?") {
				ed.Close()
			}
		}
	}
}

// promptDraft reads the three form fields. Entering "." cancels; an
// empty answer keeps the current value so editing one field is cheap.
func (t *Terminal) promptDraft(current types.StudentForm) (types.StudentForm, bool) {
	fields := []struct {
		label string
		value *string
	}{
		{"name", &current.Name},
		{"email", &current.Email},
		{"age", &current.Age},
	}

	fmt.Fprintln(t.out, "enter fields ('.' cancels, empty keeps current value)")
	for _, field := range fields {
		fmt.Fprintf(t.out, "  %s [%s]: ", field.label, *field.value)
		line, ok := t.read()
		if !ok || strings.TrimSpace(line) == "." {
			return types.StudentForm{}, true
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			*field.value = trimmed
		}
	}
	return current, false
}

// render prints the banner, the filtered table, and the count.
func (t *Terminal) render() {
	store := t.app.Roster()

	fmt.Fprintf(t.out, "\nWelcome, %s!\n", t.auth.Session().DisplayName())

	if msg := store.Error(); msg != "" {
		fmt.Fprintf(t.out, "!! %s\n", msg)
	}
	if store.Loading() {
		fmt.Fprintln(t.out, "loading...")
	}

	filtered := store.Filter(t.search)
	if t.search != "" {
		fmt.Fprintf(t.out, "search: %q\n", t.search)
	}

	if len(filtered) == 0 {
		fmt.Fprintln(t.out, "no students found")
	} else {
		fmt.Fprintf(t.out, "%-6s %-24s %-30s %s\n", "ID", "NAME", "EMAIL", "AGE")
		for _, s := range filtered {
			fmt.Fprintf(t.out, "%-6d %-24s %-30s %d\n", s.ID, s.Name, s.Email, s.Age)
		}
	}
	fmt.Fprintf(t.out, "total students: %d\n", len(filtered))
}

func (t *Terminal) help() {
	fmt.Fprintln(t.out, `commands:
  add            create a student
  edit <id>      edit a student
  del <id>       delete a student (asks for confirmation)
  search <term>  filter by name or email (empty clears)
  refresh        re-fetch the list
  logout         sign out
  quit           exit`)
}

// find resolves an id argument against the current roster.
func (t *Terminal) find(arg string) (types.Student, bool) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintln(t.out, "expected a numeric id")
		return types.Student{}, false
	}
	for _, s := range t.app.Roster().Students() {
		if s.ID == id {
			return s, true
		}
	}
	fmt.Fprintf(t.out, "no student with id %d\n", id)
	return types.Student{}, false
}

func (t *Terminal) read() (string, bool) {
	if !t.in.Scan() {
		return "", false
	}
	return t.in.Text(), true
}

func (t *Terminal) readLine() string {
	line, _ := t.read()
	return line
}
