package sequencer

import (
	"errors"
	"testing"
	"time"
)

func TestScriptValidate(t *testing.T) {
	quiz := view("quiz", "quiz", OnSignal())
	quiz.Branches = map[string]string{"correct": "yes"}

	badBranch := view("quiz", "quiz", OnSignal())
	badBranch.Branches = map[string]string{"correct": "nowhere"}

	branchOnInput := view("quiz", "quiz", OnInput())
	branchOnInput.Branches = map[string]string{"correct": "yes"}

	badNext := message("a", "A", OnInput())
	badNext.Next = "missing"

	padded := message("a", "A", OnInput())
	padded.Next = "c"

	toEnd := message("a", "A", OnInput())
	toEnd.Next = EndStepID

	tests := []struct {
		name    string
		steps   []Step
		wantErr error
	}{
		{"valid", []Step{quiz, message("yes", "YES", AutoAfter(time.Second))}, nil},
		{"next end", []Step{toEnd}, nil},
		{"empty", nil, ErrEmptyScript},
		{"missing id", []Step{message("", "A", OnInput())}, ErrMissingStepID},
		{"reserved id", []Step{message(EndStepID, "A", OnInput())}, ErrInvalidStep},
		{"padded id", []Step{padded, message(" c", "C", OnInput())}, ErrInvalidStep},
		{"duplicate id", []Step{message("a", "A", OnInput()), message("a", "B", OnInput())}, ErrDuplicateStep},
		{"unknown next", []Step{badNext}, ErrUnknownTarget},
		{"unknown branch", []Step{badBranch}, ErrUnknownTarget},
		{"empty message", []Step{message("a", "  ", OnInput())}, ErrInvalidStep},
		{"message waits for signal", []Step{message("a", "A", OnSignal())}, ErrInvalidStep},
		{"view without name", []Step{view("v", "", OnSignal())}, ErrInvalidStep},
		{"auto without duration", []Step{message("a", "A", AutoAfter(0))}, ErrInvalidStep},
		{"branches need signal", []Step{branchOnInput, message("yes", "YES", OnInput())}, ErrInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Script{Name: "test", Steps: tt.steps}.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseAdvanceMode(t *testing.T) {
	tests := []struct {
		input   string
		want    AdvanceMode
		wantErr bool
	}{
		{"auto", AdvanceAuto, false},
		{"auto-after", AdvanceAuto, false},
		{"Manual_On_Signal", AdvanceOnSignal, false},
		{"input", AdvanceOnInput, false},
		{" key ", AdvanceOnInput, false},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAdvanceMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAdvanceMode(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseAdvanceMode(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestViewRefParam(t *testing.T) {
	ref := ViewRef{Name: "quiz", Params: map[string]string{"answer": "TAYLOR SWIFT", "blank": " "}}
	if got := ref.Param("answer", ""); got != "TAYLOR SWIFT" {
		t.Fatalf("unexpected answer %q", got)
	}
	if got := ref.Param("blank", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank param, got %q", got)
	}
	if got := ref.Param("missing", "x"); got != "x" {
		t.Fatalf("expected default for missing param, got %q", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey(" "); got != "space" {
		t.Fatalf("expected space, got %q", got)
	}
	if got := NormalizeKey(" Enter "); got != "enter" {
		t.Fatalf("expected enter, got %q", got)
	}
}
