// Package diag defines the compiler's error kinds and how they are reported.
package diag

import "fmt"

// Kind classifies a compilation failure. Its numeric value is the process
// exit code reported by the ifjc command.
type Kind int

const (
	OK                          Kind = 0
	Lexical                     Kind = 1
	Syntax                      Kind = 2
	UndefinedFunctionOrVariable Kind = 3
	InvalidFunctionParameter    Kind = 4 // arity, argument type or nullability, dropped result
	Redefinition                Kind = 5 // also assignment to an immutable variable
	BadFunctionReturn           Kind = 6
	IncompatibleTypes           Kind = 7
	UnknownType                 Kind = 8
	UnusedVariable              Kind = 9
	Other                       Kind = 10
	Internal                    Kind = 99
)

var kindNames = map[Kind]string{
	OK:                          "ok",
	Lexical:                     "lexical error",
	Syntax:                      "syntax error",
	UndefinedFunctionOrVariable: "undefined function or variable",
	InvalidFunctionParameter:    "invalid function parameter",
	Redefinition:                "redefinition",
	BadFunctionReturn:           "bad function return",
	IncompatibleTypes:           "incompatible types",
	UnknownType:                 "unknown type",
	UnusedVariable:              "unused variable",
	Other:                       "semantic error",
	Internal:                    "internal compiler error",
}

// String returns a human-readable name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ExitCode returns the process exit code for k.
func (k Kind) ExitCode() int {
	return int(k)
}

// IsSemantic reports whether k is caused by the meaning of the program
// rather than its lexical or grammatical form.
func (k Kind) IsSemantic() bool {
	return k >= UndefinedFunctionOrVariable && k <= Other
}
