package diag

import (
	"errors"
	"fmt"

	"github.com/you-not-fish/ifjc/internal/src"
)

// Error is a positioned compilation error of a specific kind.
type Error struct {
	Kind Kind
	Pos  src.Pos
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Errorf creates an *Error of the given kind.
func Errorf(kind Kind, pos src.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Internalf creates an Internal error. Internal errors denote a broken
// compiler invariant, never a problem in the compiled program.
func Internalf(format string, args ...any) *Error {
	return &Error{Kind: Internal, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err. A nil error is OK and an error
// that carries no kind is Internal.
func KindOf(err error) Kind {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
