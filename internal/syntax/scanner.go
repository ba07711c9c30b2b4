package syntax

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/you-not-fish/ifjc/internal/src"
)

// Scanner performs lexical analysis on IFJ24 source code.
type Scanner struct {
	source

	tok    Token
	lit    string // identifier name, number text or decoded string
	tokPos src.Pos

	litBuf strings.Builder
}

// NewScanner creates a Scanner reading all of r.
// errh is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, r io.Reader, errh func(pos src.Pos, msg string)) *Scanner {
	return &Scanner{source: *newSource(filename, r, errh)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()
	s.lit = ""

	switch {
	case s.ch < 0:
		s.tok = _EOF

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case s.ch == '\\':
		s.scanMultilineString()

	case s.ch == '/' && s.peek() == '/':
		s.skipLineComment()
		goto redo

	default:
		if !s.scanOperator() {
			s.error(fmt.Sprintf("unexpected character %q", s.ch))
			s.nextch()
			s.tok = _None
		}
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token { return s.tok }

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string { return s.lit }

// Pos returns the current token's start position.
func (s *Scanner) Pos() src.Pos { return s.tokPos }

func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

// scanIdent scans an identifier, a keyword or the discard token "_".
func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
	s.lit = s.litBuf.String()

	if s.lit == "_" {
		s.tok = _Discard
		return
	}
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans an integer or float literal. Integers other than 0
// must not start with 0. A float has a fractional part, an exponent or both.
func (s *Scanner) scanNumber() {
	s.startLit()
	s.tok = _Int

	first := s.ch
	s.nextch()
	if first == '0' && isDigit(s.ch) {
		s.errorAt(s.tokPos, "leading zero in number literal")
	}
	s.scanDigits()

	if s.ch == '.' {
		s.tok = _Float
		s.continueLit()
		s.nextch()
		if !isDigit(s.ch) {
			s.error("expected digit after decimal point")
		}
		s.scanDigits()
	}

	if lower(s.ch) == 'e' {
		s.tok = _Float
		s.continueLit()
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.continueLit()
			s.nextch()
		}
		if !isDigit(s.ch) {
			s.error("exponent has no digits")
		}
		s.scanDigits()
	}

	s.lit = s.litBuf.String()
}

func (s *Scanner) scanDigits() {
	for isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
}

// scanString scans a one-line string literal. The literal holds the decoded
// content.
func (s *Scanner) scanString() {
	s.nextch() // opening "
	var b strings.Builder
	s.tok = _String

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = b.String()
			return

		case s.ch < 0 || s.ch == '\n':
			s.errorAt(s.tokPos, "string not terminated")
			s.lit = b.String()
			return

		case s.ch < ' ':
			s.error(fmt.Sprintf("control character %#x in string", s.ch))
			s.nextch()

		case s.ch == '\\':
			if r, ok := s.scanEscape(); ok {
				if r >= utf8.RuneSelf && r <= 0xff {
					b.WriteByte(byte(r)) // \xHH is a raw byte
				} else {
					b.WriteRune(r)
				}
			}

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanEscape decodes \n \t \r \" \\ and \xHH.
func (s *Scanner) scanEscape() (rune, bool) {
	s.nextch() // skip \

	var r rune
	switch s.ch {
	case 'n':
		r = '\n'
	case 't':
		r = '\t'
	case 'r':
		r = '\r'
	case '"':
		r = '"'
	case '\\':
		r = '\\'
	case 'x':
		s.nextch()
		return s.scanHexEscape()
	default:
		s.error(fmt.Sprintf("unknown escape sequence \\%c", s.ch))
		if s.ch >= 0 {
			s.nextch()
		}
		return 0, false
	}
	s.nextch()
	return r, true
}

func (s *Scanner) scanHexEscape() (rune, bool) {
	var val rune
	for i := 0; i < 2; i++ {
		if !isHexDigit(s.ch) {
			s.error("invalid hex escape")
			return 0, false
		}
		val = val*16 + hexValue(s.ch)
		s.nextch()
	}
	return val, true
}

func hexValue(r rune) rune {
	switch {
	case isDigit(r):
		return r - '0'
	case 'a' <= lower(r) && lower(r) <= 'f':
		return lower(r) - 'a' + 10
	}
	return 0
}

// scanMultilineString scans consecutive lines that start with \\.
// Lines are joined with '\n'; no escape sequences are decoded.
func (s *Scanner) scanMultilineString() {
	var b strings.Builder
	s.tok = _String

	for line := 0; ; line++ {
		if s.ch != '\\' || s.peek() != '\\' {
			s.error("expected \\\\ to start multiline string line")
			s.lit = b.String()
			return
		}
		s.nextch()
		s.nextch()

		if line > 0 {
			b.WriteByte('\n')
		}
		for s.ch != '\n' && s.ch >= 0 {
			b.WriteRune(s.ch)
			s.nextch()
		}

		// Continue only when the next non-blank line starts with \\.
		save := s.source
		for isWhitespace(s.ch) {
			s.nextch()
		}
		if s.ch != '\\' || s.peek() != '\\' {
			s.source = save
			s.lit = b.String()
			return
		}
	}
}

// scanOperator scans an operator or delimiter. It returns false when the
// current character starts no token.
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok = _Add
	case '-':
		s.tok = _Sub
	case '*':
		s.tok = _Mul
	case '/':
		s.tok = _Div
	case '.':
		s.tok = _Dot
	case ':':
		s.tok = _Colon
	case ',':
		s.tok = _Comma
	case '(':
		s.tok = _Lparen
	case ')':
		s.tok = _Rparen
	case '{':
		s.tok = _Lbrace
	case '}':
		s.tok = _Rbrace
	case ';':
		s.tok = _Semi
	case '|':
		s.tok = _Pipe
	case '@':
		s.tok = _At
	case '?':
		s.tok = _Question
	case '=':
		s.tok = _Assign
		if s.ch == '=' {
			s.nextch()
			s.tok = _Eql
		}
	case '<':
		s.tok = _Lss
		if s.ch == '=' {
			s.nextch()
			s.tok = _Leq
		}
	case '>':
		s.tok = _Gtr
		if s.ch == '=' {
			s.nextch()
			s.tok = _Geq
		}
	case '!':
		if s.ch != '=' {
			s.errorAt(s.tokPos, "expected != ")
			s.tok = _None
			return true
		}
		s.nextch()
		s.tok = _Neq
	case '[':
		return s.scanSliceType()
	default:
		return false
	}

	s.lit = s.tok.String()
	return true
}

// scanSliceType scans the remainder of "[]u8" after the opening bracket.
func (s *Scanner) scanSliceType() bool {
	for _, want := range "]u8" {
		if s.ch != want {
			s.errorAt(s.tokPos, "expected []u8")
			s.tok = _None
			return true
		}
		s.nextch()
	}
	if isLetter(s.ch) || isDigit(s.ch) {
		s.errorAt(s.tokPos, "expected []u8")
		s.tok = _None
		return true
	}
	s.tok = _U8
	s.lit = "[]u8"
	return true
}

// skipLineComment skips from // to the end of the line.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
