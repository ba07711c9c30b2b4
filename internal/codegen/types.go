package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/rtabi"
	"github.com/you-not-fish/ifjc/internal/syntax"
	"github.com/you-not-fish/ifjc/internal/types"
)

// constant formats a literal as an IFJcode24 constant operand.
func constant(v *syntax.Value) (string, error) {
	if v.Null {
		return rtabi.Nil, nil
	}
	switch v.Type {
	case types.I32:
		n, err := strconv.ParseInt(v.Lit, 10, 64)
		if err != nil {
			return "", diag.Errorf(diag.Internal, v.Pos(), "malformed integer literal %s", v.Lit)
		}
		return rtabi.TypeInt + strconv.FormatInt(n, 10), nil
	case types.F64:
		f, err := strconv.ParseFloat(v.Lit, 64)
		if err != nil {
			return "", diag.Errorf(diag.Internal, v.Pos(), "malformed float literal %s", v.Lit)
		}
		return rtabi.TypeFloat + formatFloat(f), nil
	case types.U8:
		return rtabi.TypeString + escapeString(v.Lit), nil
	}
	return "", diag.Errorf(diag.Internal, v.Pos(), "literal of type %s", v.Type)
}

// formatFloat formats f in the hexadecimal notation of C's %a, as in
// "0x1.8p+1". The exponent has no leading zeros.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'x', -1, 64)
	i := strings.IndexByte(s, 'p')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	exp := strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return s[:i+2] + exp
}

// escapeString escapes control characters, space, '#' and '\' as \ddd.
func escapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 32 || c == '#' || c == '\\' {
			fmt.Fprintf(&b, "\\%03d", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// varName returns the frame-qualified name of v.
func varName(v *types.Var) string {
	if v.IsDiscard() {
		return rtabi.Discard
	}
	return rtabi.VarName(v.Name, v.ID)
}

// arithInst returns the stack instruction of an arithmetic operator.
// Division of i32 operands is integer division.
func arithInst(op *syntax.Operand) (string, error) {
	switch op.Op {
	case syntax.Add:
		return "ADDS", nil
	case syntax.Sub:
		return "SUBS", nil
	case syntax.Mul:
		return "MULS", nil
	case syntax.Div:
		if op.Type == types.I32 {
			return "IDIVS", nil
		}
		return "DIVS", nil
	}
	return "", diag.Errorf(diag.Internal, op.Pos(), "operator %s in arithmetic expression", op.Op)
}

// compareInsts returns the stack instructions that leave the result of
// comparing the two topmost values.
func compareInsts(op syntax.Token) []string {
	switch op {
	case syntax.Eql:
		return []string{"EQS"}
	case syntax.Neq:
		return []string{"EQS", "NOTS"}
	case syntax.Lss:
		return []string{"LTS"}
	case syntax.Gtr:
		return []string{"GTS"}
	case syntax.Leq:
		return []string{"GTS", "NOTS"}
	case syntax.Geq:
		return []string{"LTS", "NOTS"}
	}
	return nil
}
