package codegen

import (
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/rtabi"
	"github.com/you-not-fish/ifjc/internal/syntax"
	"github.com/you-not-fish/ifjc/internal/types"
)

// lowerFunc emits a single function.
func (g *generator) lowerFunc(fn *syntax.Function) {
	g.fn = fn
	defer func() { g.fn = nil }()

	g.e.emitLine()
	if g.conf.Comments {
		g.e.emitComment("%s", fn.Def.Signature())
	}
	g.e.emitLabel(rtabi.FuncLabel(fn.Name))
	g.e.emit("CREATEFRAME")
	g.e.emit("PUSHFRAME")

	for _, v := range frameVars(fn) {
		g.e.emit("DEFVAR %s", varName(v))
	}
	// The last argument is on top of the stack.
	for i := len(fn.Params) - 1; i >= 0; i-- {
		g.e.emit("POPS %s", varName(fn.Params[i]))
	}

	g.lowerBlock(fn.Body)

	g.e.emit("POPFRAME")
	g.e.emit("RETURN")
}

// frameVars returns the parameters and all variables declared in the body
// of fn, each once, in declaration order.
func frameVars(fn *syntax.Function) []*types.Var {
	vars := append([]*types.Var(nil), fn.Params...)
	syntax.Inspect(fn.Body, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Declare:
			vars = append(vars, n.Var)
		case *syntax.IfElse:
			if n.Binding != nil {
				vars = append(vars, n.Binding)
			}
		case *syntax.While:
			if n.Binding != nil {
				vars = append(vars, n.Binding)
			}
		case syntax.Expr:
			return false
		}
		return true
	})
	return vars
}

// lowerBlock emits the statements of a block.
func (g *generator) lowerBlock(b *syntax.Block) {
	for _, s := range b.Stmts {
		g.lowerStmt(s)
	}
}

// lowerStmt emits a single statement.
func (g *generator) lowerStmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.Declare:
		g.lowerValue(s.Value)
		g.e.emit("POPS %s", varName(s.Var))

	case *syntax.Assign:
		g.lowerValue(s.Value)
		g.e.emit("POPS %s", varName(s.Var))

	case *syntax.FunctionCall:
		g.lowerCall(s)

	case *syntax.IfElse:
		g.lowerIf(s)

	case *syntax.While:
		g.lowerWhile(s)

	case *syntax.Return:
		if s.Value != nil {
			g.lowerValue(s.Value)
		}
		g.e.emit("POPFRAME")
		g.e.emit("RETURN")

	case *syntax.BlockEnd:
		// Frames are per function; scopes need no code.

	default:
		g.fail(diag.Errorf(diag.Internal, s.Pos(), "cannot lower %T", s))
	}
}

// lowerIf emits
//
//	<negated condition> -> else
//	then
//	JUMP endif
//	LABEL else
//	else
//	LABEL endif
func (g *generator) lowerIf(s *syntax.IfElse) {
	elseL, endL := g.e.labelPair(g.fn.Name, "else", "endif")
	g.lowerCond(s.Cond, s.Subject, s.Binding, elseL)
	g.lowerBlock(s.Then)
	if s.Else == nil {
		g.e.emitLabel(elseL)
		return
	}
	g.e.emit("JUMP %s", endL)
	g.e.emitLabel(elseL)
	g.lowerBlock(s.Else.Body)
	g.e.emitLabel(endL)
}

// lowerWhile emits
//
//	LABEL while
//	<negated condition> -> endwhile
//	body
//	JUMP while
//	LABEL endwhile
func (g *generator) lowerWhile(s *syntax.While) {
	loopL, endL := g.e.labelPair(g.fn.Name, "while", "endwhile")
	g.e.emitLabel(loopL)
	g.lowerCond(s.Cond, s.Subject, s.Binding, endL)
	g.lowerBlock(s.Body)
	g.e.emit("JUMP %s", loopL)
	g.e.emitLabel(endL)
}

// lowerCond emits a jump to target taken when the condition does not
// hold. A comparison is lowered through its negation; the binding form
// jumps when the subject is null and otherwise copies it to the binding.
func (g *generator) lowerCond(cond *syntax.TruthExpression, subject *syntax.Variable, binding *types.Var, target string) {
	if cond == nil {
		g.e.emit("PUSHS %s", varName(subject.Var))
		g.e.emit("PUSHS %s", rtabi.Nil)
		g.e.emit("JUMPIFEQS %s", target)
		g.e.emit("MOVE %s %s", varName(binding), varName(subject.Var))
		return
	}

	g.lowerExpression(cond.Left)
	g.lowerExpression(cond.Right)
	insts := compareInsts(cond.Op.Negate())
	if insts == nil {
		g.fail(diag.Errorf(diag.Internal, cond.Pos(), "comparison operator %s", cond.Op))
		return
	}
	g.e.emitLines(insts)
	g.e.emit("PUSHS %s", rtabi.True)
	g.e.emit("JUMPIFEQS %s", target)
}

// lowerValue emits code leaving the value of a right-hand side on the
// data stack.
func (g *generator) lowerValue(x syntax.Expr) {
	switch x := x.(type) {
	case *syntax.Expression:
		g.lowerExpression(x)
	case *syntax.FunctionCall:
		g.lowerCall(x)
	case *syntax.Value, *syntax.Variable:
		g.push(x)
	default:
		g.fail(diag.Errorf(diag.Internal, x.Pos(), "cannot lower %T", x))
	}
}

// lowerExpression evaluates a postfix expression on the data stack.
func (g *generator) lowerExpression(e *syntax.Expression) {
	for _, t := range e.Postfix {
		op, ok := t.(*syntax.Operand)
		if !ok {
			g.push(t)
			continue
		}
		inst, err := arithInst(op)
		if err != nil {
			g.fail(err)
			return
		}
		g.e.emit("%s", inst)
	}
}

// lowerCall pushes the arguments and calls the function. Built-ins call
// their runtime helper.
func (g *generator) lowerCall(c *syntax.FunctionCall) {
	if c.Def == nil {
		g.fail(diag.Errorf(diag.Internal, c.Pos(), "unresolved call to %s", c.Name))
		return
	}
	for _, a := range c.Args {
		g.push(a)
	}

	if !c.Def.Builtin {
		g.e.emit("CALL %s", rtabi.FuncLabel(c.Name))
		return
	}
	h := rtabi.LookupHelper(c.Name)
	if h == nil {
		g.fail(diag.Errorf(diag.Internal, c.Pos(), "no runtime helper for %s", c.Name))
		return
	}
	g.used.Add(h.Name)
	g.e.emit("CALL %s", h.Label())
}

// push emits a PUSHS of a literal or a variable.
func (g *generator) push(x syntax.Expr) {
	switch x := x.(type) {
	case *syntax.Value:
		s, err := constant(x)
		if err != nil {
			g.fail(err)
			return
		}
		g.e.emit("PUSHS %s", s)
	case *syntax.Variable:
		g.e.emit("PUSHS %s", varName(x.Var))
	default:
		g.fail(diag.Errorf(diag.Internal, x.Pos(), "cannot push %T", x))
	}
}
