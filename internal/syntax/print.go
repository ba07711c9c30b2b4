package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/you-not-fish/ifjc/internal/types"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.pos)
		p.indent++
		p.printf("Import: %q\n", n.Import)
		for _, fn := range n.Funcs {
			p.print(fn)
		}
		p.indent--

	case *Function:
		p.printf("Function %s %s\n", n.pos, n.Def.Signature())
		p.indent++
		for _, v := range n.Params {
			p.printf("Param %s\n", varString(v))
		}
		p.print(n.Body)
		p.indent--

	case *Block:
		p.printf("Block %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--
		p.print(n.End)

	case *BlockEnd:
		p.printf("BlockEnd %s %s\n", n.pos, n.Scope.Kind())

	case *Declare:
		kw := "const"
		if n.Var.Mutable {
			kw = "var"
		}
		p.printf("Declare %s %s %s\n", n.pos, kw, varString(n.Var))
		p.indent++
		p.print(n.Value)
		p.indent--

	case *Assign:
		p.printf("Assign %s %s\n", n.pos, varString(n.Var))
		p.indent++
		p.print(n.Value)
		p.indent--

	case *Return:
		p.printf("Return %s\n", n.pos)
		if n.Value != nil {
			p.indent++
			p.print(n.Value)
			p.indent--
		}

	case *IfElse:
		p.printf("IfElse %s\n", n.pos)
		p.indent++
		p.cond(n.Cond, n.Subject, n.Binding)
		p.printf("Then:\n")
		p.indent++
		p.print(n.Then)
		p.indent--
		if n.Else != nil {
			p.print(n.Else)
		}
		p.indent--

	case *ElseStart:
		p.printf("ElseStart %s\n", n.pos)
		p.indent++
		p.print(n.Body)
		p.indent--

	case *While:
		p.printf("While %s\n", n.pos)
		p.indent++
		p.cond(n.Cond, n.Subject, n.Binding)
		p.printf("Body:\n")
		p.indent++
		p.print(n.Body)
		p.indent--
		p.indent--

	case *TruthExpression:
		p.printf("TruthExpression %s %s\n", n.pos, n.Op)
		p.indent++
		p.print(n.Left)
		p.print(n.Right)
		p.indent--

	case *Expression:
		p.printf("Expression %s [%s]\n", n.pos, n)

	case *FunctionCall:
		p.printf("FunctionCall %s %s\n", n.pos, n.Name)
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	case *Value:
		p.printf("Value %s %s %s\n", n.pos, n.Type, termString(n))

	case *Variable:
		p.printf("Variable %s %s\n", n.pos, varString(n.Var))

	case *Operand:
		p.printf("Operand %s %s\n", n.pos, n.Op)

	default:
		p.printf("Unknown node %T\n", n)
	}
}

func (p *printer) cond(cond *TruthExpression, subject *Variable, binding *types.Var) {
	if cond != nil {
		p.print(cond)
		return
	}
	p.printf("Unwrap %s |%s|\n", varString(subject.Var), binding.Name)
}

// String formats a finished expression in postfix order, as in "2 a 3 / +".
func (e *Expression) String() string {
	parts := make([]string, len(e.Postfix))
	for i, x := range e.Postfix {
		parts[i] = termString(x)
	}
	return strings.Join(parts, " ")
}

// termString formats a postfix element.
func termString(x Expr) string {
	switch n := x.(type) {
	case *Value:
		if n.Type == types.U8 {
			return strconv.Quote(n.Lit)
		}
		return n.Lit
	case *Variable:
		return n.Var.Name
	case *Operand:
		return n.Op.String()
	}
	return fmt.Sprintf("%T", x)
}

// varString formats a variable as "#id name: type".
func varString(v *types.Var) string {
	return fmt.Sprintf("#%d %s: %s", v.ID, v.Name, v.TypeString())
}
