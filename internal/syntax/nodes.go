package syntax

import (
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
	"github.com/you-not-fish/ifjc/internal/types"
)

// ----------------------------------------------------------------------------
// Interfaces
//
// Expression nodes produce values, statement nodes appear in blocks.
// FunctionCall is both.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() src.Pos
	aNode()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	aStmt()
}

type node struct {
	pos src.Pos
}

func (n *node) Pos() src.Pos { return n.pos }
func (n *node) aNode()       {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Program structure

// File is a complete compilation unit.
type File struct {
	node
	Import string      // path in the prolog, "ifj24.zig"
	Funcs  []*Function // in source order
}

// Function is a function definition. Variables referenced by the body are
// owned by the symbol table; Params points into it.
type Function struct {
	node
	Name   string
	Def    *types.FuncDef
	Params []*types.Var
	Body   *Block
}

// Block is a braced statement list. End records the closing brace and the
// scope that was exited there.
type Block struct {
	node
	Stmts []Stmt
	End   *BlockEnd
}

// ----------------------------------------------------------------------------
// Statements

// Declare is a const or var declaration with its initializer.
type Declare struct {
	stmt
	Var   *types.Var
	Value Expr // *Expression or *FunctionCall
}

// Assign assigns to a variable or to the discard variable.
type Assign struct {
	stmt
	Var   *types.Var
	Value Expr // *Expression or *FunctionCall
}

// IfElse is an if statement. Exactly one of Cond and Subject is set; a
// Subject comes with the Binding declared for the then-branch.
type IfElse struct {
	stmt
	Cond    *TruthExpression
	Subject *Variable
	Binding *types.Var
	Then    *Block
	Else    *ElseStart // nil without an else branch
}

// While is a while loop, with the same condition forms as IfElse.
type While struct {
	stmt
	Cond    *TruthExpression
	Subject *Variable
	Binding *types.Var
	Body    *Block
}

// Return returns from the enclosing function. Value is nil for a bare
// return.
type Return struct {
	stmt
	Value Expr // nil, *Expression or *FunctionCall
}

// ElseStart opens the else branch of an IfElse.
type ElseStart struct {
	stmt
	Body *Block
}

// BlockEnd closes a block.
type BlockEnd struct {
	stmt
	Scope *types.Scope
}

// ----------------------------------------------------------------------------
// Expressions

// Value is a literal. Null literals have type None and Null set.
type Value struct {
	expr
	Type types.DataType
	Lit  string // source text for numbers, decoded content for strings
	Null bool
}

// NewValue creates a literal node.
func NewValue(pos src.Pos, typ types.DataType, lit string) *Value {
	v := &Value{Type: typ, Lit: lit}
	v.pos = pos
	return v
}

// NewNull creates a null literal node.
func NewNull(pos src.Pos) *Value {
	v := &Value{Type: types.None, Lit: "null", Null: true}
	v.pos = pos
	return v
}

// Variable references a symbol-table variable. It never owns it.
type Variable struct {
	expr
	Var *types.Var
}

// NewVariable creates a variable reference node.
func NewVariable(pos src.Pos, v *types.Var) *Variable {
	n := &Variable{Var: v}
	n.pos = pos
	return n
}

// Operand is an arithmetic operator inside an Expression. Type is the
// result type, filled in by the validator.
type Operand struct {
	expr
	Op   Token
	Type types.DataType
}

// NewOperand creates an operator node.
func NewOperand(pos src.Pos, op Token) *Operand {
	o := &Operand{Op: op}
	o.pos = pos
	return o
}

// FunctionCall calls a user or built-in function. Arguments are Value or
// Variable nodes. Def is resolved by the validator.
type FunctionCall struct {
	expr
	Name string
	Args []Expr
	Def  *types.FuncDef
}

func (*FunctionCall) aStmt() {}

// TruthExpression compares two arithmetic expressions.
type TruthExpression struct {
	expr
	Left  *Expression
	Op    Token
	Right *Expression
	Type  types.DataType // common operand type, filled in by the validator
}

// Expression is an arithmetic expression. While open it is built from
// infix input with an output queue and an operator stack; Finish collapses
// it into Postfix exactly once.
type Expression struct {
	expr
	Postfix []Expr // *Value, *Variable and *Operand in postfix order

	output   []Expr
	ops      []*Operand
	finished bool

	Type     types.DataType // filled in by the validator
	Nullable bool
}

// NewExpression creates an open expression.
func NewExpression(pos src.Pos) *Expression {
	e := &Expression{}
	e.pos = pos
	return e
}

// Finished reports whether Finish has been called.
func (e *Expression) Finished() bool { return e.finished }

// AddTerm appends a Value or Variable.
func (e *Expression) AddTerm(x Expr) error {
	if e.finished {
		return diag.Internalf("term added to finished expression")
	}
	switch x.(type) {
	case *Value, *Variable:
	default:
		return diag.Internalf("expression term %T", x)
	}
	e.output = append(e.output, x)
	return nil
}

// AddOperator appends an arithmetic operator or a parenthesis.
func (e *Expression) AddOperator(op *Operand) error {
	if e.finished {
		return diag.Internalf("operator added to finished expression")
	}
	switch {
	case op.Op == _Lparen:
		e.ops = append(e.ops, op)

	case op.Op == _Rparen:
		for {
			if len(e.ops) == 0 {
				return diag.Errorf(diag.Syntax, op.Pos(), "unbalanced )")
			}
			top := e.popOp()
			if top.Op == _Lparen {
				break
			}
			e.output = append(e.output, top)
		}

	case op.Op.IsArith():
		prec := op.Op.Precedence()
		for len(e.ops) > 0 {
			top := e.ops[len(e.ops)-1]
			if top.Op == _Lparen || top.Op.Precedence() < prec {
				break
			}
			e.output = append(e.output, e.popOp())
		}
		e.ops = append(e.ops, op)

	default:
		return diag.Internalf("operator %s in arithmetic expression", op.Op)
	}
	return nil
}

func (e *Expression) popOp() *Operand {
	top := e.ops[len(e.ops)-1]
	e.ops = e.ops[:len(e.ops)-1]
	return top
}

// Finish moves the remaining operators to the output and freezes the
// expression. Calling Finish again is a no-op.
func (e *Expression) Finish() error {
	if e.finished {
		return nil
	}
	for len(e.ops) > 0 {
		top := e.popOp()
		if top.Op == _Lparen {
			return diag.Errorf(diag.Syntax, top.Pos(), "unbalanced (")
		}
		e.output = append(e.output, top)
	}
	if len(e.output) == 0 {
		return diag.Errorf(diag.Syntax, e.pos, "empty expression")
	}
	e.Postfix = e.output
	e.output = nil
	e.finished = true
	return nil
}

// Single returns the only term of a finished one-term expression, or nil.
func (e *Expression) Single() Expr {
	if len(e.Postfix) == 1 {
		return e.Postfix[0]
	}
	return nil
}
