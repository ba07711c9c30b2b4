package sema

import (
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/syntax"
	"github.com/you-not-fish/ifjc/internal/types"
)

// block checks a list of statements.
func (c *Checker) block(b *syntax.Block) error {
	for _, s := range b.Stmts {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// stmt checks a single statement.
func (c *Checker) stmt(s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.Declare:
		return c.assignment(s.Var, s.Value)

	case *syntax.Assign:
		if !c.table.CanMutate(s.Var) {
			return c.errorf(diag.Redefinition, s.Pos(), "cannot assign to %s (declared const)", s.Var.Name)
		}
		return c.assignment(s.Var, s.Value)

	case *syntax.FunctionCall:
		return c.callStmt(s)

	case *syntax.IfElse:
		return c.ifStmt(s)

	case *syntax.While:
		return c.whileStmt(s)

	case *syntax.Return:
		return c.returnStmt(s)

	case *syntax.ElseStart:
		return c.block(s.Body)

	case *syntax.BlockEnd:
		return nil
	}
	return c.invalidAST(s)
}

// assignment checks that the value e may be stored in v. A variable
// declared without a type or nullability adopts those of the value.
func (c *Checker) assignment(v *types.Var, e syntax.Expr) error {
	var x operand
	if err := c.expr(&x, e); err != nil {
		return err
	}
	if x.mode == novalue {
		return c.errorf(diag.IncompatibleTypes, e.Pos(), "%s (no value) used as value", callName(e))
	}
	if v.IsDiscard() {
		return nil
	}

	switch {
	case !v.Type.IsResolved():
		if x.mode == null {
			return c.errorf(diag.UnknownType, e.Pos(), "use of untyped null in declaration of %s", v.Name)
		}
		v.Type = x.typ
	case x.mode != null:
		ok, err := c.convertLiteral(&x, e, v.Type)
		if err != nil {
			return err
		}
		if !ok {
			return c.errorf(diag.IncompatibleTypes, e.Pos(), "cannot use %s as %s value in assignment to %s",
				&x, v.TypeString(), v.Name)
		}
	}

	switch v.Nullable {
	case types.NullUnknown:
		v.Nullable = types.NullabilityOf(x.nullable)
	case types.NullNo:
		if x.nullable {
			return c.errorf(diag.IncompatibleTypes, e.Pos(), "cannot use %s as %s value in assignment to %s",
				&x, v.TypeString(), v.Name)
		}
	}
	return nil
}

// callStmt checks a call whose result is discarded.
func (c *Checker) callStmt(s *syntax.FunctionCall) error {
	var x operand
	if err := c.call(&x, s); err != nil {
		return err
	}
	if x.mode != novalue {
		return c.errorf(diag.InvalidFunctionParameter, s.Pos(), "result of %s (%s) is not used", s.Name, &x)
	}
	return nil
}

// condition checks the condition of an if or while statement.
func (c *Checker) condition(cond *syntax.TruthExpression, subject *syntax.Variable, binding *types.Var) error {
	if cond != nil {
		return c.truth(cond)
	}
	var x operand
	if err := c.leaf(&x, subject, -1); err != nil {
		return err
	}
	if !x.nullable {
		return c.errorf(diag.IncompatibleTypes, subject.Pos(), "cannot unwrap non-nullable %s", subject.Var.Name)
	}
	binding.Type = x.typ
	binding.Nullable = types.NullNo
	return nil
}

// ifStmt checks an if statement.
func (c *Checker) ifStmt(s *syntax.IfElse) error {
	if err := c.condition(s.Cond, s.Subject, s.Binding); err != nil {
		return err
	}
	if err := c.block(s.Then); err != nil {
		return err
	}
	if s.Else != nil {
		return c.stmt(s.Else)
	}
	return nil
}

// whileStmt checks a while statement.
func (c *Checker) whileStmt(s *syntax.While) error {
	if err := c.condition(s.Cond, s.Subject, s.Binding); err != nil {
		return err
	}
	return c.block(s.Body)
}

// returnStmt checks a return statement against the enclosing function.
func (c *Checker) returnStmt(s *syntax.Return) error {
	if c.fn == nil {
		return c.errorf(diag.Internal, s.Pos(), "return statement outside function")
	}
	c.returns++
	def := c.fn.Def

	if def.Return == types.Void {
		if s.Value != nil {
			return c.errorf(diag.BadFunctionReturn, s.Pos(), "too many return values in %s", def.Name)
		}
		return nil
	}
	if s.Value == nil {
		return c.errorf(diag.BadFunctionReturn, s.Pos(), "not enough return values in %s, want %s",
			def.Name, types.TypeString(def.Return, def.NullableReturn))
	}

	var x operand
	if err := c.expr(&x, s.Value); err != nil {
		return err
	}
	want := types.TypeString(def.Return, def.NullableReturn)
	switch {
	case x.mode == novalue:
		return c.errorf(diag.IncompatibleTypes, s.Value.Pos(), "%s (no value) used as value", callName(s.Value))
	case x.nullable && !def.NullableReturn:
		return c.errorf(diag.IncompatibleTypes, s.Value.Pos(), "cannot use %s as %s value in return statement", &x, want)
	case x.mode == null:
		return nil
	}
	ok, err := c.convertLiteral(&x, s.Value, def.Return)
	if err != nil {
		return err
	}
	if !ok {
		return c.errorf(diag.IncompatibleTypes, s.Value.Pos(), "cannot use %s as %s value in return statement", &x, want)
	}
	return nil
}

func callName(e syntax.Expr) string {
	if call, ok := e.(*syntax.FunctionCall); ok {
		return call.Name + "()"
	}
	return "expression"
}
