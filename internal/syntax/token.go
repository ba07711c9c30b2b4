// Package syntax implements lexical and syntactic analysis for IFJ24.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_None Token = iota // no token
	_EOF               // end of file

	_Name // identifier: foo, bar

	// Arithmetic operators
	_Add // +
	_Sub // -
	_Div // /
	_Mul // *

	// Comparison operators
	_Eql // ==
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=
	_Neq // !=

	// Literals
	_String // "abc"
	_Int    // 123
	_Float  // 1.5, 2e10

	// Delimiters
	_Dot      // .
	_Assign   // =
	_Colon    // :
	_Comma    // ,
	_Lparen   // (
	_Rparen   // )
	_Lbrace   // {
	_Rbrace   // }
	_Semi     // ;
	_Pipe     // |
	_At       // @
	_Discard  // _
	_Question // ?

	// Keywords
	_Var
	_Const
	_If
	_Else
	_Return
	_While
	_Fn
	_Null
	_Pub
	_Void
	_I32
	_F64
	_U8 // []u8
	_Ifj
	_Import

	tokenCount
)

var tokenNames = [...]string{
	_None: "NONE",
	_EOF:  "EOF",

	_Name: "NAME",

	_Add: "+",
	_Sub: "-",
	_Div: "/",
	_Mul: "*",

	_Eql: "==",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",
	_Neq: "!=",

	_String: "STRING",
	_Int:    "INT",
	_Float:  "FLOAT",

	_Dot:      ".",
	_Assign:   "=",
	_Colon:    ":",
	_Comma:    ",",
	_Lparen:   "(",
	_Rparen:   ")",
	_Lbrace:   "{",
	_Rbrace:   "}",
	_Semi:     ";",
	_Pipe:     "|",
	_At:       "@",
	_Discard:  "_",
	_Question: "?",

	_Var:    "var",
	_Const:  "const",
	_If:     "if",
	_Else:   "else",
	_Return: "return",
	_While:  "while",
	_Fn:     "fn",
	_Null:   "null",
	_Pub:    "pub",
	_Void:   "void",
	_I32:    "i32",
	_F64:    "f64",
	_U8:     "[]u8",
	_Ifj:    "ifj",
	_Import: "import",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Var && t <= _Import
}

// IsLiteral reports whether t is a string, integer or float literal.
func (t Token) IsLiteral() bool {
	return t == _String || t == _Int || t == _Float
}

// IsDataType reports whether t names a value type (i32, f64, []u8).
func (t Token) IsDataType() bool {
	return t == _I32 || t == _F64 || t == _U8
}

// IsArith reports whether t is one of + - * /.
func (t Token) IsArith() bool {
	return t >= _Add && t <= _Mul
}

// IsRelational reports whether t is a comparison or equality operator.
func (t Token) IsRelational() bool {
	return t >= _Eql && t <= _Neq
}

// IsEquality reports whether t is == or !=.
func (t Token) IsEquality() bool {
	return t == _Eql || t == _Neq
}

// Precedence returns the binding strength of an arithmetic operator, used
// when an expression is collapsed to postfix form. Non-operators return 0.
func (t Token) Precedence() int {
	switch t {
	case _Add, _Sub:
		return 1
	case _Mul, _Div:
		return 2
	}
	return 0
}

// Negate returns the comparison operator whose result is the logical
// negation of t. Non-comparison tokens are returned unchanged.
func (t Token) Negate() Token {
	switch t {
	case _Eql:
		return _Neq
	case _Neq:
		return _Eql
	case _Gtr:
		return _Leq
	case _Leq:
		return _Gtr
	case _Lss:
		return _Geq
	case _Geq:
		return _Lss
	}
	return t
}

// Exported operator tokens for the validator and code generator.
const (
	Add Token = _Add
	Sub Token = _Sub
	Mul Token = _Mul
	Div Token = _Div
	Eql Token = _Eql
	Neq Token = _Neq
	Lss Token = _Lss
	Leq Token = _Leq
	Gtr Token = _Gtr
	Geq Token = _Geq
)

// keywords maps keyword strings to their token type. "[]u8" and "_" are
// recognised by the scanner directly.
var keywords = map[string]Token{
	"var":    _Var,
	"const":  _Const,
	"if":     _If,
	"else":   _Else,
	"return": _Return,
	"while":  _While,
	"fn":     _Fn,
	"null":   _Null,
	"pub":    _Pub,
	"void":   _Void,
	"i32":    _I32,
	"f64":    _F64,
	"ifj":    _Ifj,
	"import": _Import,
}

// LookupKeyword returns the keyword token for ident, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
