// Package sema implements semantic validation of IFJ24 programs.
//
// The checker walks every function body once, in declaration order. It
// resolves the types of variables declared without one, coerces numeric
// literals where the other operand fixes the type, and annotates the AST
// with the result types the code generator needs. The first error aborts
// the check.
package sema

import (
	"github.com/edwingeng/deque"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
	"github.com/you-not-fish/ifjc/internal/syntax"
	"github.com/you-not-fish/ifjc/internal/types"
)

// Config controls the checker.
type Config struct {
	// Trace, if set, receives one line per checked function.
	Trace *diag.Tracer
}

// Checker is the semantic validator.
type Checker struct {
	conf  *Config
	table *types.Table

	// Function context
	fn      *syntax.Function
	returns int // return statements seen in fn

	// Operand stack for postfix evaluation, reset per expression.
	stack deque.Deque
}

// NewChecker creates a checker resolving function calls in table.
func NewChecker(conf *Config, table *types.Table) *Checker {
	if conf == nil {
		conf = &Config{}
	}
	return &Checker{
		conf:  conf,
		table: table,
		stack: deque.NewDeque(),
	}
}

// Check validates file against table. unused is the first unused-variable
// signal raised while parsing; it is returned only when no other error
// is found.
func Check(conf *Config, file *syntax.File, table *types.Table, unused error) error {
	c := NewChecker(conf, table)
	if err := c.Files(file); err != nil {
		return err
	}
	return unused
}

// Files validates every function of file in declaration order.
func (c *Checker) Files(file *syntax.File) error {
	for _, fn := range file.Funcs {
		if err := c.funcBody(fn); err != nil {
			return err
		}
	}
	return nil
}

// funcBody checks the body of one function.
func (c *Checker) funcBody(fn *syntax.Function) error {
	c.fn = fn
	c.returns = 0
	defer func() { c.fn = nil }()

	if err := c.block(fn.Body); err != nil {
		return err
	}

	def := fn.Def
	if def.Return != types.Void && def.Name != "main" && c.returns == 0 {
		return c.errorf(diag.BadFunctionReturn, fn.Pos(), "missing return in function %s returning %s",
			def.Name, types.TypeString(def.Return, def.NullableReturn))
	}
	c.conf.Trace.Printf("checked %s (%d returns)", def.Signature(), c.returns)
	return nil
}

// errorf creates an error of the given kind.
func (c *Checker) errorf(kind diag.Kind, pos src.Pos, format string, args ...interface{}) error {
	return diag.Errorf(kind, pos, format, args...)
}

// invalidAST reports a node the parser should never have produced.
func (c *Checker) invalidAST(n syntax.Node) error {
	return diag.Errorf(diag.Internal, n.Pos(), "invalid AST: unexpected %T", n)
}
