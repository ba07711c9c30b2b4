package syntax

import (
	"io"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
)

// Item is one buffered token.
type Item struct {
	Tok Token
	Lit string
	Pos src.Pos
}

func (it Item) String() string {
	switch it.Tok {
	case _Name, _Int, _Float:
		return it.Lit
	case _String:
		return `"` + it.Lit + `"`
	}
	return it.Tok.String()
}

// Buffer holds the complete token stream of one compilation unit. The last
// item is always EOF.
type Buffer struct {
	items []Item
	idx   int // cursor used by Next and Peek
}

// Tokenize scans all of r into a Buffer. The first lexical error aborts
// scanning and is returned as a diag.Lexical error.
func Tokenize(filename string, r io.Reader) (*Buffer, error) {
	var first *diag.Error
	errh := func(pos src.Pos, msg string) {
		if first == nil {
			first = diag.Errorf(diag.Lexical, pos, "%s", msg)
		}
	}

	s := NewScanner(filename, r, errh)
	b := &Buffer{}
	for {
		s.Next()
		if first != nil {
			return nil, first
		}
		b.items = append(b.items, Item{Tok: s.Token(), Lit: s.Literal(), Pos: s.Pos()})
		if s.Token() == _EOF {
			return b, nil
		}
	}
}

// NewBuffer creates a Buffer from already scanned items. An EOF item is
// appended when missing.
func NewBuffer(items []Item) *Buffer {
	b := &Buffer{items: append([]Item(nil), items...)}
	if len(b.items) == 0 || b.items[len(b.items)-1].Tok != _EOF {
		var pos src.Pos
		if n := len(b.items); n > 0 {
			pos = b.items[n-1].Pos
		}
		b.items = append(b.items, Item{Tok: _EOF, Pos: pos})
	}
	return b
}

// Len returns the number of items including the trailing EOF.
func (b *Buffer) Len() int { return len(b.items) }

// At returns the item at index i. Indexes past the end yield EOF.
func (b *Buffer) At(i int) Item {
	if i < 0 {
		i = 0
	}
	if i >= len(b.items) {
		return b.items[len(b.items)-1]
	}
	return b.items[i]
}

// Next returns the item under the cursor and advances it.
func (b *Buffer) Next() Item {
	it := b.At(b.idx)
	if b.idx < len(b.items)-1 {
		b.idx++
	}
	return it
}

// Peek returns the item under the cursor without advancing.
func (b *Buffer) Peek() Item { return b.At(b.idx) }

// Index returns the cursor position.
func (b *Buffer) Index() int { return b.idx }

// Seek moves the cursor to index i.
func (b *Buffer) Seek(i int) {
	switch {
	case i < 0:
		i = 0
	case i >= len(b.items):
		i = len(b.items) - 1
	}
	b.idx = i
}

// Items returns the buffered items. The slice must not be modified.
func (b *Buffer) Items() []Item { return b.items }
