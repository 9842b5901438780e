package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestStageWriterReportsOutcome(t *testing.T) {
	var out bytes.Buffer
	clock := time.Unix(0, 0)
	w := &stageWriter{out: &out, now: func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}}

	if err := w.run("Migrating database", func() error { return nil }); err != nil {
		t.Fatalf("run: %v", err)
	}
	boom := errors.New("disk full")
	if err := w.run("Writing config", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected error to pass through, got %v", err)
	}

	want := "Migrating database ... ok (250ms)\nWriting config ... failed: disk full\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestStageWriterQuiet(t *testing.T) {
	var out bytes.Buffer
	w := &stageWriter{out: &out, quiet: true, now: time.Now}

	ran := false
	if err := w.run("Migrating database", func() error { ran = true; return nil }); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !ran || out.Len() != 0 {
		t.Fatalf("quiet writer must run silently, ran=%v output=%q", ran, out.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1234 * time.Microsecond, "1ms"},
		{1549 * time.Millisecond, "1.5s"},
		{90*time.Second + 400*time.Millisecond, "1m30s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Fatalf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
