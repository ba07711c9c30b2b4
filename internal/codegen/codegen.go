// Package codegen translates a validated IFJ24 AST into IFJcode24.
//
// Every function owns a local frame holding all of its variables, which
// are defined once at function entry. Arguments and results travel on the
// data stack, and expressions are evaluated with the stack instructions.
// Built-in functions are implemented by runtime helpers that are appended
// to the program when called at least once.
package codegen

import (
	"io"

	"github.com/ahrtr/gocontainer/set"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/rtabi"
	"github.com/you-not-fish/ifjc/internal/syntax"
)

// Config controls code generation.
type Config struct {
	// Comments adds a comment line before each function.
	Comments bool

	// Trace, if set, receives a summary of the generated program.
	Trace *diag.Tracer
}

// generator holds the state of one translation.
type generator struct {
	conf *Config
	e    *emitter
	fn   *syntax.Function // function being lowered
	used set.Interface    // names of called built-ins
	err  error            // first lowering error
}

// Generate writes the IFJcode24 translation of file to w. The file must
// have passed validation.
func Generate(conf *Config, w io.Writer, file *syntax.File) error {
	if conf == nil {
		conf = &Config{}
	}
	g := &generator{
		conf: conf,
		e:    &emitter{w: w},
		used: set.New(),
	}

	g.header()
	for _, fn := range file.Funcs {
		g.lowerFunc(fn)
	}
	g.helpers()

	if g.err != nil {
		return g.err
	}
	if g.e.err != nil {
		return g.e.err
	}
	conf.Trace.Printf("generated %d instructions, %d labels", g.e.lines, g.e.labels)
	return nil
}

// fail records the first lowering error.
func (g *generator) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

// header writes the program prologue: the global temporaries and the call
// of main.
func (g *generator) header() {
	g.e.emit("%s", rtabi.Header)
	g.e.emit("DEFVAR %s", rtabi.Discard)
	g.e.emit("CALL %s", rtabi.MainLabel)
	g.e.emit("EXIT %s", rtabi.ExitOK)
}

// helpers appends the runtime helpers of all called built-ins, in catalog
// order.
func (g *generator) helpers() {
	for _, h := range rtabi.Helpers() {
		if !g.used.Contains(h.Name) {
			continue
		}
		g.e.emitLine()
		if g.conf.Comments {
			g.e.emitComment("ifj.%s", h.Name)
		}
		g.e.emitLabel(h.Label())
		g.e.emitLines(h.Body)
	}
}
