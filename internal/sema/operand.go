package sema

import (
	"github.com/you-not-fish/ifjc/internal/src"
	"github.com/you-not-fish/ifjc/internal/types"
)

// operandMode describes what an evaluated expression is.
type operandMode int

const (
	novalue  operandMode = iota // void function call
	null                        // the null literal
	literal                     // number or string literal
	variable                    // variable reference
	value                       // computed value or call result
)

var modeNames = [...]string{
	novalue:  "no value",
	null:     "null",
	literal:  "literal",
	variable: "variable",
	value:    "value",
}

// operand is the result of evaluating an expression.
type operand struct {
	mode     operandMode
	pos      src.Pos
	typ      types.DataType
	nullable bool
	slot     int // index of a literal leaf in the postfix sequence, or -1
}

// String formats the operand for error messages, as in "literal ?i32".
func (x *operand) String() string {
	if x.mode == novalue || x.mode == null {
		return modeNames[x.mode]
	}
	return modeNames[x.mode] + " " + types.TypeString(x.typ, x.nullable)
}

// isLiteral reports whether x is a literal leaf that may be coerced.
func (x *operand) isLiteral() bool {
	return x.mode == literal
}
