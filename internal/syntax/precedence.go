package syntax

import (
	"github.com/edwingeng/deque"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/types"
)

// precClass is the terminal class of a token in the precedence table.
type precClass uint8

const (
	clsAddSub  precClass = iota // + -
	clsMulDiv                   // * /
	clsLparen                   // (
	clsRparen                   // )
	clsOperand                  // identifier, literal, null
	clsRel                      // == != < <= > >=
	clsEnd                      // $
)

var precClassNames = [...]string{
	clsAddSub:  "+-",
	clsMulDiv:  "*/",
	clsLparen:  "(",
	clsRparen:  ")",
	clsOperand: "id",
	clsRel:     "rel",
	clsEnd:     "$",
}

func (c precClass) String() string { return precClassNames[c] }

// precAction is an entry of the precedence table.
type precAction uint8

const (
	actErr    precAction = iota
	actShift             // <
	actEqual             // =
	actReduce            // >
	actEnd
)

// precTable is indexed by the active element (row) and the input (column).
var precTable = [7][7]precAction{
	//           +-         */         (          )          id         rel        $
	clsAddSub:  {actReduce, actShift, actShift, actReduce, actShift, actReduce, actReduce},
	clsMulDiv:  {actReduce, actReduce, actShift, actReduce, actShift, actReduce, actReduce},
	clsLparen:  {actShift, actShift, actShift, actEqual, actShift, actShift, actErr},
	clsRparen:  {actReduce, actReduce, actErr, actReduce, actErr, actReduce, actReduce},
	clsOperand: {actReduce, actReduce, actErr, actReduce, actErr, actReduce, actReduce},
	clsRel:     {actShift, actShift, actShift, actReduce, actShift, actReduce, actReduce},
	clsEnd:     {actShift, actShift, actShift, actErr, actShift, actShift, actEnd},
}

// stackKind distinguishes the variants of a precedence stack item.
type stackKind uint8

const (
	stackTerm   stackKind = iota // terminal
	stackMarker                  // shift marker
	stackExpr                    // E
	stackRel                     // R
)

type stackItem struct {
	kind  stackKind
	class precClass // terminals only
	item  Item
}

// precAnalyzer is one run of the operator-precedence automaton. Shifted
// terminals are fed to Expression builders, so a successful run yields the
// finished AST directly.
type precAnalyzer struct {
	buf   *Buffer
	table *types.Table
	truth bool
	depth int // open parentheses in truth mode, including the condition's own

	stack deque.Deque

	cur   *Expression // expression receiving shifted terminals
	left  *Expression // truth mode: expression before the relational operator
	relOp Item
}

// AnalyzeExpression parses the arithmetic expression starting at index
// start and ending at the next top-level ';'. It returns the finished
// expression and the index of the ';', which is not consumed.
func AnalyzeExpression(buf *Buffer, start int, table *types.Table) (*Expression, int, error) {
	a := newPrecAnalyzer(buf, start, table, false)
	end, err := a.run(start)
	if err != nil {
		return nil, end, err
	}
	if err := a.cur.Finish(); err != nil {
		return nil, end, err
	}
	return a.cur, end, nil
}

// AnalyzeCondition parses the comparison starting at index start, just past
// the opening '(' of an if or while condition. It returns the finished truth
// expression and the index of the matching ')', which is not consumed.
func AnalyzeCondition(buf *Buffer, start int, table *types.Table) (*TruthExpression, int, error) {
	a := newPrecAnalyzer(buf, start, table, true)
	end, err := a.run(start)
	if err != nil {
		return nil, end, err
	}
	if a.left == nil {
		return nil, end, diag.Errorf(diag.Syntax, buf.At(start).Pos, "condition is not a comparison")
	}
	if err := a.cur.Finish(); err != nil {
		return nil, end, err
	}
	t := &TruthExpression{Left: a.left, Op: a.relOp.Tok, Right: a.cur}
	t.pos = a.relOp.Pos
	return t, end, nil
}

func newPrecAnalyzer(buf *Buffer, start int, table *types.Table, truth bool) *precAnalyzer {
	a := &precAnalyzer{
		buf:   buf,
		table: table,
		truth: truth,
		stack: deque.NewDeque(),
		cur:   NewExpression(buf.At(start).Pos),
	}
	if truth {
		a.depth = 1
	}
	a.stack.PushBack(stackItem{kind: stackTerm, class: clsEnd})
	return a
}

// run drives the automaton from index i and returns the terminator index.
func (a *precAnalyzer) run(i int) (int, error) {
	in := a.buf.At(i)
	cls, err := a.classify(in)
	if err != nil {
		return i, err
	}

	for {
		top := a.active()
		switch precTable[top.class][cls] {
		case actShift:
			a.insertMarker()
			fallthrough

		case actEqual:
			if err := a.feed(in, cls, i); err != nil {
				return i, err
			}
			a.stack.PushBack(stackItem{kind: stackTerm, class: cls, item: in})
			i++
			in = a.buf.At(i)
			if cls, err = a.classify(in); err != nil {
				return i, err
			}

		case actReduce:
			if err := a.reduce(in); err != nil {
				return i, err
			}

		case actEnd:
			return i, a.accept(in)

		default:
			return i, diag.Errorf(diag.Syntax, in.Pos, "unexpected %s after %s in expression", in, top.class)
		}
	}
}

// classify maps an input token to its terminal class. Every token is
// classified exactly once, which keeps the truth-mode parenthesis depth
// exact across reductions.
func (a *precAnalyzer) classify(in Item) (precClass, error) {
	switch tok := in.Tok; {
	case tok == _Add || tok == _Sub:
		return clsAddSub, nil
	case tok == _Mul || tok == _Div:
		return clsMulDiv, nil
	case tok == _Lparen:
		if a.truth {
			a.depth++
		}
		return clsLparen, nil
	case tok == _Rparen:
		if a.truth {
			a.depth--
			if a.depth == 0 {
				return clsEnd, nil
			}
		}
		return clsRparen, nil
	case tok == _Name || tok.IsLiteral() || tok == _Null:
		return clsOperand, nil
	case tok.IsRelational():
		if !a.truth {
			return 0, diag.Errorf(diag.Syntax, in.Pos, "comparison %s outside of a condition", tok)
		}
		return clsRel, nil
	case tok == _Semi && !a.truth:
		return clsEnd, nil
	}
	return 0, diag.Errorf(diag.Syntax, in.Pos, "unexpected %s in expression", in)
}

// active returns the topmost terminal on the stack.
func (a *precAnalyzer) active() stackItem {
	for i := a.stack.Len() - 1; i >= 0; i-- {
		if it := a.stack.Peek(i).(stackItem); it.kind == stackTerm {
			return it
		}
	}
	// The bottom $ is never popped.
	panic("precedence stack without terminal")
}

// insertMarker places a shift marker directly above the active element.
func (a *precAnalyzer) insertMarker() {
	var above []stackItem
	for a.stack.Back().(stackItem).kind != stackTerm {
		above = append(above, a.stack.PopBack().(stackItem))
	}
	a.stack.PushBack(stackItem{kind: stackMarker})
	for i := len(above) - 1; i >= 0; i-- {
		a.stack.PushBack(above[i])
	}
}

// reduce replaces the handle above the rightmost marker with E or R.
func (a *precAnalyzer) reduce(in Item) error {
	var handle []stackItem
	for {
		if a.stack.Len() == 0 {
			return diag.Errorf(diag.Syntax, in.Pos, "malformed expression before %s", in)
		}
		it := a.stack.PopBack().(stackItem)
		if it.kind == stackMarker {
			break
		}
		if it.kind == stackTerm && it.class == clsEnd {
			return diag.Errorf(diag.Syntax, in.Pos, "malformed expression before %s", in)
		}
		handle = append(handle, it)
	}
	// handle is in reverse stack order.
	for l, r := 0, len(handle)-1; l < r; l, r = l+1, r-1 {
		handle[l], handle[r] = handle[r], handle[l]
	}

	if kind, ok := matchRule(handle, a.truth); ok {
		a.stack.PushBack(stackItem{kind: kind})
		return nil
	}
	return diag.Errorf(diag.Syntax, in.Pos, "malformed expression before %s", in)
}

// matchRule reports which nonterminal a handle reduces to.
func matchRule(h []stackItem, truth bool) (stackKind, bool) {
	isTerm := func(it stackItem, c precClass) bool { return it.kind == stackTerm && it.class == c }
	switch len(h) {
	case 1:
		if isTerm(h[0], clsOperand) {
			return stackExpr, true // E -> id
		}
	case 3:
		switch {
		case h[0].kind == stackExpr && h[2].kind == stackExpr &&
			(isTerm(h[1], clsAddSub) || isTerm(h[1], clsMulDiv)):
			return stackExpr, true // E -> E op E
		case isTerm(h[0], clsLparen) && h[1].kind == stackExpr && isTerm(h[2], clsRparen):
			return stackExpr, true // E -> ( E )
		case truth && h[0].kind == stackExpr && h[2].kind == stackExpr && isTerm(h[1], clsRel):
			return stackRel, true // R -> E rel E
		}
	}
	return 0, false
}

// accept checks the final stack shape.
func (a *precAnalyzer) accept(in Item) error {
	want := stackExpr
	if a.truth {
		want = stackRel
	}
	if a.stack.Len() == 2 && a.stack.Back().(stackItem).kind == want {
		return nil
	}
	if a.stack.Len() == 1 {
		return diag.Errorf(diag.Syntax, in.Pos, "expected expression, found %s", in)
	}
	if a.truth {
		return diag.Errorf(diag.Syntax, in.Pos, "condition is not a comparison")
	}
	return diag.Errorf(diag.Syntax, in.Pos, "malformed expression before %s", in)
}

// feed hands a shifted terminal to the expression builder.
func (a *precAnalyzer) feed(in Item, cls precClass, i int) error {
	switch cls {
	case clsOperand:
		leaf, err := a.leaf(in)
		if err != nil {
			return err
		}
		return a.cur.AddTerm(leaf)

	case clsRel:
		if a.left != nil {
			return diag.Errorf(diag.Syntax, in.Pos, "chained comparison")
		}
		if err := a.cur.Finish(); err != nil {
			return err
		}
		a.left = a.cur
		a.relOp = in
		a.cur = NewExpression(a.buf.At(i + 1).Pos)
		return nil
	}
	return a.cur.AddOperator(NewOperand(in.Pos, in.Tok))
}

// leaf builds the AST node for an operand terminal.
func (a *precAnalyzer) leaf(in Item) (Expr, error) {
	switch in.Tok {
	case _Name:
		v := a.table.Find(in.Lit)
		if v == nil {
			return nil, diag.Errorf(diag.UndefinedFunctionOrVariable, in.Pos, "undefined: %s", in.Lit)
		}
		return NewVariable(in.Pos, v), nil
	case _Int, _Float, _String:
		return NewValue(in.Pos, literalType(in.Tok), in.Lit), nil
	case _Null:
		return NewNull(in.Pos), nil
	}
	return nil, diag.Internalf("operand token %s", in.Tok)
}
