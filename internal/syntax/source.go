package syntax

import (
	"io"
	"unicode/utf8"

	"github.com/you-not-fish/ifjc/internal/src"
)

// source is a character reader with position tracking.
type source struct {
	buf []byte // entire source file

	filename string
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based, in characters)

	ch   rune // current character, -1 for EOF
	offs int  // byte offset just past ch

	errh func(pos src.Pos, msg string)
}

// newSource reads all of r. errh is called for each error; it may be nil.
func newSource(filename string, r io.Reader, errh func(pos src.Pos, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		ch:       -1, // before first char, nextch moves col from 0 to 1
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(r)
	if err != nil {
		s.error("error reading source: " + err.Error())
		return s
	}

	s.nextch()
	return s
}

// nextch advances to the next character. (line, col) always refers to s.ch.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		// Strings are byte sequences in IFJcode24; keep the raw byte.
		r = rune(s.buf[s.offs])
	}
	s.ch = r
	s.offs += width
}

// peek returns the character after s.ch without consuming anything.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

// pos returns the position of the current character.
func (s *source) pos() src.Pos {
	return src.NewPos(s.filename, s.line, s.col)
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	s.errorAt(s.pos(), msg)
}

func (s *source) errorAt(pos src.Pos, msg string) {
	if s.errh != nil {
		s.errh(pos, msg)
	}
}

// isLetter reports whether r may start an identifier.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

// lower returns the lowercase version of an ASCII letter.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
