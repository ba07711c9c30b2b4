package codegen

import (
	"fmt"
	"io"
)

// emitter wraps an io.Writer with helpers for emitting IFJcode24 text.
type emitter struct {
	w      io.Writer
	err    error // first write error
	labels int   // counter for generated labels
	lines  int   // instructions written
}

// emit writes a formatted instruction line.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
	e.lines++
}

// emitLines writes prepared instruction lines.
func (e *emitter) emitLines(lines []string) {
	for _, l := range lines {
		e.emit("%s", l)
	}
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// emitComment writes a comment line.
func (e *emitter) emitComment(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "# "+format+"\n", args...)
}

// emitLabel writes a LABEL instruction.
func (e *emitter) emitLabel(label string) {
	e.emit("LABEL %s", label)
}

// labelPair returns two fresh labels "$fn$first$N" and "$fn$second$N".
// N is unique in the whole program, so labels never collide across
// functions.
func (e *emitter) labelPair(fn, first, second string) (string, string) {
	n := e.labels
	e.labels++
	return fmt.Sprintf("$%s$%s$%d", fn, first, n), fmt.Sprintf("$%s$%s$%d", fn, second, n)
}
