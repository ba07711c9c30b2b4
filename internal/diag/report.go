package diag

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/fatih/color"
)

// Reporter prints diagnostics, one line per error.
type Reporter struct {
	w io.Writer

	pos  *color.Color
	kind map[bool]*color.Color // keyed by "is internal"
	warn *color.Color
}

// NewReporter creates a Reporter writing to w. When colored is false the
// output contains no escape sequences.
func NewReporter(w io.Writer, colored bool) *Reporter {
	r := &Reporter{
		w:   w,
		pos: color.New(color.Faint),
		kind: map[bool]*color.Color{
			false: color.New(color.FgRed, color.Bold),
			true:  color.New(color.FgMagenta, color.Bold),
		},
		warn: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{r.pos, r.kind[false], r.kind[true], r.warn} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Report prints err. Errors without a kind are printed as internal errors.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: Internal, Msg: err.Error()}
	}
	if e.Pos.IsValid() {
		r.pos.Fprintf(r.w, "%s: ", e.Pos)
	}
	r.kind[e.Kind == Internal].Fprintf(r.w, "%s", e.Kind)
	fmt.Fprintf(r.w, ": %s (exit %d)\n", e.Msg, e.Kind.ExitCode())
}

// Warn prints a non-fatal note.
func (r *Reporter) Warn(format string, args ...any) {
	r.warn.Fprintf(r.w, "warning: ")
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Tracer logs compiler phase timings. A nil *Tracer discards everything.
type Tracer struct {
	l *log.Logger
}

// NewTracer returns a Tracer writing to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{l: log.New(w, "[trace] ", log.Lmicroseconds)}
}

// Printf logs a formatted trace line.
func (t *Tracer) Printf(format string, args ...any) {
	if t == nil {
		return
	}
	t.l.Printf(format, args...)
}

// Phase starts timing a phase. The returned func logs its duration.
func (t *Tracer) Phase(name string) func() {
	if t == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		t.l.Printf("%-10s %v", name, time.Since(start))
	}
}
