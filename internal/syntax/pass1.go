package syntax

import (
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/types"
)

// CollectFunctions is the first pass. It walks the whole buffer and
// registers the signature of every "pub fn" header in the table, so calls
// in pass 2 may refer to functions defined later in the file. Function
// bodies are skipped by brace counting.
func CollectFunctions(buf *Buffer, table *types.Table) error {
	depth := 0
	for i := 0; ; {
		it := buf.At(i)
		switch it.Tok {
		case _EOF:
			if depth != 0 {
				return diag.Errorf(diag.Syntax, it.Pos, "unexpected EOF, expected }")
			}
			return checkMain(buf, table)

		case _Lbrace:
			depth++
			i++

		case _Rbrace:
			depth--
			if depth < 0 {
				return diag.Errorf(diag.Syntax, it.Pos, "unbalanced }")
			}
			i++

		case _Pub:
			if depth > 0 {
				return diag.Errorf(diag.Syntax, it.Pos, "function declaration inside function body")
			}
			h := headerReader{buf: buf, i: i}
			def, err := h.header()
			if err != nil {
				return err
			}
			if err := table.AddFunction(def); err != nil {
				return err
			}
			i = h.i

		default:
			i++
		}
	}
}

func checkMain(buf *Buffer, table *types.Table) error {
	main := table.LookupFunction("main")
	if main == nil {
		return diag.Errorf(diag.UndefinedFunctionOrVariable, buf.At(buf.Len()-1).Pos, "function main is undeclared")
	}
	if len(main.Params) != 0 || main.Return != types.Void {
		return diag.Errorf(diag.InvalidFunctionParameter, main.Pos, "func main must have no arguments and no return values")
	}
	return nil
}

// headerReader reads one function header for pass 1.
type headerReader struct {
	buf *Buffer
	i   int
}

func (h *headerReader) peek() Item { return h.buf.At(h.i) }

func (h *headerReader) want(tok Token) (Item, error) {
	it := h.buf.At(h.i)
	if it.Tok != tok {
		return it, diag.Errorf(diag.Syntax, it.Pos, "unexpected %s in function header, expected %s", it, tok)
	}
	h.i++
	return it, nil
}

// header reads "pub fn id ( params ) returnType" and stops before the body.
func (h *headerReader) header() (*types.FuncDef, error) {
	if _, err := h.want(_Pub); err != nil {
		return nil, err
	}
	if _, err := h.want(_Fn); err != nil {
		return nil, err
	}
	name, err := h.want(_Name)
	if err != nil {
		return nil, err
	}
	def := &types.FuncDef{Name: name.Lit, Pos: name.Pos}

	if _, err := h.want(_Lparen); err != nil {
		return nil, err
	}
	for h.peek().Tok != _Rparen {
		pname, err := h.want(_Name)
		if err != nil {
			return nil, err
		}
		if _, err := h.want(_Colon); err != nil {
			return nil, err
		}
		typ, nullable, err := h.valueType()
		if err != nil {
			return nil, err
		}
		def.Params = append(def.Params, types.Param{Name: pname.Lit, Type: typ, Nullable: nullable})
		if h.peek().Tok != _Comma {
			break
		}
		h.i++
	}
	if _, err := h.want(_Rparen); err != nil {
		return nil, err
	}

	if h.peek().Tok == _Void {
		h.i++
		def.Return = types.Void
	} else {
		def.Return, def.NullableReturn, err = h.valueType()
		if err != nil {
			return nil, err
		}
	}
	if it := h.peek(); it.Tok != _Lbrace {
		return nil, diag.Errorf(diag.Syntax, it.Pos, "unexpected %s after function header, expected {", it)
	}
	return def, nil
}

// valueType reads "[?](i32|f64|[]u8)".
func (h *headerReader) valueType() (types.DataType, bool, error) {
	nullable := false
	if h.peek().Tok == _Question {
		nullable = true
		h.i++
	}
	it := h.peek()
	typ, ok := dataTypeOf(it.Tok)
	if !ok {
		return types.None, false, diag.Errorf(diag.Syntax, it.Pos, "unexpected %s, expected type", it)
	}
	h.i++
	return typ, nullable, nil
}

// dataTypeOf maps a type keyword to its data type.
func dataTypeOf(tok Token) (types.DataType, bool) {
	switch tok {
	case _I32:
		return types.I32, true
	case _F64:
		return types.F64, true
	case _U8:
		return types.U8, true
	}
	return types.None, false
}

// literalType returns the data type of a literal token.
func literalType(tok Token) types.DataType {
	switch tok {
	case _Int:
		return types.I32
	case _Float:
		return types.F64
	case _String:
		return types.U8
	}
	return types.None
}
