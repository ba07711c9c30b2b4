package sema

import (
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/syntax"
	"github.com/you-not-fish/ifjc/internal/types"
)

// expr evaluates the right-hand side e into x: a literal, a variable, a
// function call or an arithmetic expression.
func (c *Checker) expr(x *operand, e syntax.Expr) error {
	switch e := e.(type) {
	case *syntax.Value, *syntax.Variable:
		return c.leaf(x, e, -1)
	case *syntax.FunctionCall:
		return c.call(x, e)
	case *syntax.Expression:
		return c.expression(x, e)
	}
	return c.invalidAST(e)
}

// leaf evaluates a literal or a variable reference. slot is the index of
// e in its enclosing sequence, kept so that a literal can be replaced by
// its coerced form.
func (c *Checker) leaf(x *operand, e syntax.Expr, slot int) error {
	*x = operand{pos: e.Pos(), slot: slot}
	switch e := e.(type) {
	case *syntax.Value:
		if e.Null {
			x.mode = null
			x.typ = types.None
			x.nullable = true
			return nil
		}
		x.mode = literal
		x.typ = e.Type

	case *syntax.Variable:
		v := e.Var
		if !v.Type.IsResolved() {
			return c.errorf(diag.UnknownType, e.Pos(), "cannot infer type of %s", v.Name)
		}
		x.mode = variable
		x.typ = v.Type
		x.nullable = v.Nullable.Bool()

	default:
		return c.invalidAST(e)
	}
	return nil
}

// expression evaluates a finished postfix expression with an operand
// stack. Each operator is annotated with its result type and e receives
// the type of the whole expression.
func (c *Checker) expression(x *operand, e *syntax.Expression) error {
	if !e.Finished() {
		return diag.Errorf(diag.Internal, e.Pos(), "unfinished expression")
	}
	for !c.stack.Empty() {
		c.stack.PopBack()
	}

	for i, t := range e.Postfix {
		switch t := t.(type) {
		case *syntax.Value, *syntax.Variable:
			var y operand
			if err := c.leaf(&y, t, i); err != nil {
				return err
			}
			c.stack.PushBack(y)

		case *syntax.Operand:
			if c.stack.Len() < 2 {
				return diag.Errorf(diag.Internal, t.Pos(), "missing operand for %s", t.Op)
			}
			r := c.stack.PopBack().(operand)
			l := c.stack.PopBack().(operand)
			if err := c.binary(e.Postfix, t, &l, &r); err != nil {
				return err
			}
			t.Type = l.typ
			c.stack.PushBack(operand{mode: value, pos: t.Pos(), typ: l.typ, slot: -1})

		default:
			return c.invalidAST(t)
		}
	}

	if c.stack.Len() != 1 {
		return diag.Errorf(diag.Internal, e.Pos(), "malformed postfix expression [%s]", e)
	}
	*x = c.stack.PopBack().(operand)
	e.Type = x.typ
	e.Nullable = x.nullable
	return nil
}

// binary checks the operands of an arithmetic operator. On success l and
// r have the same numeric type.
func (c *Checker) binary(postfix []syntax.Expr, op *syntax.Operand, l, r *operand) error {
	for _, y := range [2]*operand{l, r} {
		switch {
		case y.mode == null:
			return c.errorf(diag.IncompatibleTypes, op.Pos(), "invalid operation: null operand of %s", op.Op)
		case y.nullable:
			return c.errorf(diag.IncompatibleTypes, op.Pos(), "invalid operation: operator %s not defined on %s", op.Op, y)
		case !y.typ.IsNumeric():
			return c.errorf(diag.IncompatibleTypes, op.Pos(), "invalid operation: operator %s not defined on %s", op.Op, y)
		}
	}
	if l.typ == r.typ {
		return nil
	}

	switch {
	case l.isLiteral() && r.isLiteral():
		if err := c.coerce(postfix, l, types.F64); err != nil {
			return err
		}
		return c.coerce(postfix, r, types.F64)
	case l.isLiteral():
		return c.coerce(postfix, l, r.typ)
	case r.isLiteral():
		return c.coerce(postfix, r, l.typ)
	}
	return c.errorf(diag.IncompatibleTypes, op.Pos(), "invalid operation: mismatched types %s and %s", l.typ, r.typ)
}

// coerce replaces the literal leaf x in slots with its conversion to typ.
func (c *Checker) coerce(slots []syntax.Expr, x *operand, typ types.DataType) error {
	if x.slot < 0 || x.slot >= len(slots) {
		return diag.Errorf(diag.Internal, x.pos, "literal without slot")
	}
	v, ok := slots[x.slot].(*syntax.Value)
	if !ok {
		return c.invalidAST(slots[x.slot])
	}
	nv, err := CoerceLiteral(v, typ)
	if err != nil {
		return err
	}
	slots[x.slot] = nv
	x.typ = typ
	return nil
}

// convertLiteral converts x, evaluated from e, to typ when x is a single
// numeric literal. It reports whether x has type typ afterwards.
func (c *Checker) convertLiteral(x *operand, e syntax.Expr, typ types.DataType) (bool, error) {
	if x.typ == typ {
		return true, nil
	}
	if !x.isLiteral() || !x.typ.IsNumeric() || !typ.IsNumeric() {
		return false, nil
	}
	ex, ok := e.(*syntax.Expression)
	if !ok {
		return false, nil
	}
	if err := c.coerce(ex.Postfix, x, typ); err != nil {
		return false, err
	}
	ex.Type = typ
	return true, nil
}

// truth checks a comparison. Relational operators need non-nullable
// numeric operands; equality also accepts []u8, nullable operands and
// null.
func (c *Checker) truth(t *syntax.TruthExpression) error {
	var l, r operand
	if err := c.expression(&l, t.Left); err != nil {
		return err
	}
	if err := c.expression(&r, t.Right); err != nil {
		return err
	}

	if !t.Op.IsEquality() {
		for _, y := range [2]*operand{&l, &r} {
			switch {
			case y.mode == null:
				return c.errorf(diag.IncompatibleTypes, t.Pos(), "invalid comparison: null operand of %s", t.Op)
			case y.nullable || !y.typ.IsNumeric():
				return c.errorf(diag.IncompatibleTypes, t.Pos(), "invalid comparison: operator %s not defined on %s", t.Op, y)
			}
		}
	}

	switch {
	case l.mode == null && r.mode == null:
		t.Type = types.None
		return nil
	case l.mode == null:
		t.Type = r.typ
		return nil
	case r.mode == null:
		t.Type = l.typ
		return nil
	}

	if l.typ != r.typ && l.typ.IsNumeric() && r.typ.IsNumeric() {
		var err error
		switch {
		case l.isLiteral() && r.isLiteral():
			if _, err = c.convertLiteral(&l, t.Left, types.F64); err == nil {
				_, err = c.convertLiteral(&r, t.Right, types.F64)
			}
		case l.isLiteral():
			_, err = c.convertLiteral(&l, t.Left, r.typ)
		case r.isLiteral():
			_, err = c.convertLiteral(&r, t.Right, l.typ)
		}
		if err != nil {
			return err
		}
	}
	if l.typ != r.typ {
		return c.errorf(diag.IncompatibleTypes, t.Pos(), "invalid comparison: mismatched types %s and %s", l.typ, r.typ)
	}
	t.Type = l.typ
	return nil
}
