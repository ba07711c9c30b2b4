package sema

import (
	"math"
	"strconv"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/syntax"
	"github.com/you-not-fish/ifjc/internal/types"
)

// CoerceLiteral converts a numeric literal to typ. It returns v itself
// when no conversion is needed and a new Value otherwise, so coercing an
// already coerced literal is a no-op. An i32 literal N becomes N.0; an f64
// literal with a zero fraction becomes the integer it denotes. Anything
// else is IncompatibleTypes.
func CoerceLiteral(v *syntax.Value, typ types.DataType) (*syntax.Value, error) {
	if v.Null {
		return nil, diag.Errorf(diag.IncompatibleTypes, v.Pos(), "cannot use null as %s", typ)
	}
	if v.Type == typ {
		return v, nil
	}

	switch {
	case v.Type == types.I32 && typ == types.F64:
		return syntax.NewValue(v.Pos(), types.F64, v.Lit+".0"), nil

	case v.Type == types.F64 && typ == types.I32:
		f, err := strconv.ParseFloat(v.Lit, 64)
		if err != nil {
			return nil, diag.Errorf(diag.Internal, v.Pos(), "malformed float literal %s", v.Lit)
		}
		if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return nil, diag.Errorf(diag.IncompatibleTypes, v.Pos(), "%s loses precision as i32", v.Lit)
		}
		return syntax.NewValue(v.Pos(), types.I32, strconv.FormatInt(int64(f), 10)), nil
	}
	return nil, diag.Errorf(diag.IncompatibleTypes, v.Pos(), "cannot use %s literal %s as %s", v.Type, quoteLit(v), typ)
}

func quoteLit(v *syntax.Value) string {
	if v.Type == types.U8 {
		return strconv.Quote(v.Lit)
	}
	return v.Lit
}
