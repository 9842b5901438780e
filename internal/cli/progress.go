package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

// stageWriter reports each setup stage as one "label ... ok (12ms)" line.
// It stays quiet under --json, --no-progress and WRAPPED_NO_PROGRESS so
// the output stays machine readable.
type stageWriter struct {
	out   io.Writer
	quiet bool
	now   func() time.Time
}

func newStageWriter(out io.Writer) *stageWriter {
	_, envQuiet := os.LookupEnv("WRAPPED_NO_PROGRESS")
	return &stageWriter{
		out:   out,
		quiet: IsJSONOutput() || noProgress || envQuiet,
		now:   time.Now,
	}
}

// run times fn under label. The error is returned unchanged.
func (w *stageWriter) run(label string, fn func() error) error {
	if w.quiet {
		return fn()
	}

	fmt.Fprintf(w.out, "%s ... ", label)
	started := w.now()
	if err := fn(); err != nil {
		fmt.Fprintf(w.out, "failed: %v\n", err)
		return err
	}
	fmt.Fprintf(w.out, "ok (%s)\n", formatDuration(w.now().Sub(started)))
	return nil
}

// formatDuration rounds d for tables: milliseconds below a second, tenths
// below a minute, whole seconds above.
func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
