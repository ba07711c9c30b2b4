package sema

import (
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/syntax"
	"github.com/you-not-fish/ifjc/internal/types"
)

// call checks a function call and resolves its definition. x receives the
// declared result; a void function yields no value.
func (c *Checker) call(x *operand, e *syntax.FunctionCall) error {
	def := c.table.LookupFunction(e.Name)
	if def == nil {
		if types.IsBuiltinName(e.Name) {
			return c.errorf(diag.UndefinedFunctionOrVariable, e.Pos(), "%s is not a built-in function", e.Name)
		}
		return c.errorf(diag.UndefinedFunctionOrVariable, e.Pos(), "undefined: %s", e.Name)
	}
	e.Def = def

	if len(e.Args) != len(def.Params) {
		return c.errorf(diag.InvalidFunctionParameter, e.Pos(), "wrong argument count in call to %s: have %d, want %d",
			e.Name, len(e.Args), len(def.Params))
	}
	for i, p := range def.Params {
		if err := c.arg(e, i, p); err != nil {
			return err
		}
	}

	*x = operand{mode: value, pos: e.Pos(), typ: def.Return, nullable: def.NullableReturn, slot: -1}
	if def.Return == types.Void {
		x.mode = novalue
	}
	return nil
}

// arg checks argument i of call e against parameter p. A literal argument
// is coerced in place.
func (c *Checker) arg(e *syntax.FunctionCall, i int, p types.Param) error {
	a := e.Args[i]
	var x operand
	if err := c.leaf(&x, a, i); err != nil {
		return err
	}

	if x.nullable && !p.Nullable {
		return c.errorf(diag.InvalidFunctionParameter, a.Pos(), "cannot use %s as %s in argument %d to %s",
			&x, types.TypeString(p.Type, p.Nullable), i+1, e.Name)
	}
	if p.Type == types.Undefined || x.mode == null || x.typ == p.Type {
		return nil
	}
	if x.isLiteral() {
		if err := c.coerce(e.Args, &x, p.Type); err == nil {
			return nil
		}
	}
	return c.errorf(diag.InvalidFunctionParameter, a.Pos(), "cannot use %s as %s in argument %d to %s",
		&x, types.TypeString(p.Type, p.Nullable), i+1, e.Name)
}
