package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/aanand-mishra/students-client/internal/types"
)

func TestOpenCreate(t *testing.T) {
	ed := New()
	ed.OpenCreate()

	if !ed.IsOpen() {
		t.Fatal("expected the dialog to be open")
	}
	if _, editing := ed.Target(); editing {
		t.Error("create mode must have no edit target")
	}
	if ed.Draft() != (types.StudentForm{}) {
		t.Errorf("expected an empty draft, got %+v", ed.Draft())
	}
}

func TestOpenEdit(t *testing.T) {
	ed := New()
	ed.OpenEdit(types.Student{ID: 7, Name: "Amy", Email: "a@x.com", Age: 21})

	if !ed.IsOpen() {
		t.Fatal("expected the dialog to be open")
	}

	target, editing := ed.Target()
	if !editing {
		t.Fatal("expected an edit target")
	}
	if target.ID != 7 {
		t.Errorf("target id: expected 7, got %d", target.ID)
	}

	want := types.StudentForm{Name: "Amy", Email: "a@x.com", Age: "21"}
	if ed.Draft() != want {
		t.Errorf("draft: expected %+v, got %+v", want, ed.Draft())
	}
}

func TestCloseDiscardsEverything(t *testing.T) {
	ed := New()
	ed.OpenEdit(types.Student{ID: 7, Name: "Amy", Email: "a@x.com", Age: 21})
	ed.SetDraft(types.StudentForm{Name: "Changed", Email: "c@x.com", Age: "22"})

	ed.Close()

	if ed.IsOpen() {
		t.Error("expected the dialog to be closed")
	}
	if _, editing := ed.Target(); editing {
		t.Error("expected the edit target to be cleared")
	}
	if ed.Draft() != (types.StudentForm{}) {
		t.Errorf("expected the draft to be discarded, got %+v", ed.Draft())
	}

	// Reopening in create mode must not resurrect the old draft.
	ed.OpenCreate()
	if ed.Draft() != (types.StudentForm{}) {
		t.Errorf("stale draft leaked into a new dialog: %+v", ed.Draft())
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		draft   types.StudentForm
		wantErr bool
		mention string
	}{
		{
			name:  "complete draft passes",
			draft: types.StudentForm{Name: "Amy", Email: "a@x.com", Age: "21"},
		},
		{
			name:    "missing name",
			draft:   types.StudentForm{Email: "a@x.com", Age: "21"},
			wantErr: true,
			mention: "field Name is required",
		},
		{
			name:    "missing email",
			draft:   types.StudentForm{Name: "Amy", Age: "21"},
			wantErr: true,
			mention: "field Email is required",
		},
		{
			name:    "missing age",
			draft:   types.StudentForm{Name: "Amy", Email: "a@x.com"},
			wantErr: true,
			mention: "field Age is required",
		},
		{
			name:    "everything missing",
			draft:   types.StudentForm{},
			wantErr: true,
			mention: "field Name is required, field Email is required, field Age is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ed := New()
			ed.OpenCreate()
			ed.SetDraft(tc.draft)

			err := ed.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("expected the draft to pass, got %v", err)
				}
				return
			}

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.mention) {
				t.Errorf("expected %q in the message, got %q", tc.mention, err)
			}
		})
	}
}
