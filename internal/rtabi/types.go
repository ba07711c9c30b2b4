// Package rtabi defines the conventions shared between generated IFJcode24
// and the interpreter that runs it: the program header, frames, operand
// type prefixes and the labels of runtime helpers.
package rtabi

import "strconv"

// Program layout
const (
	// Header is the mandatory first line of an IFJcode24 program.
	Header = ".IFJcode24"

	// MainLabel is the label of the user's main function.
	MainLabel = "$main"

	// ExitOK is the operand of the final EXIT instruction.
	ExitOK = "int@0"
)

// Frame prefixes
const (
	GlobalFrame    = "GF@"
	LocalFrame     = "LF@"
	TemporaryFrame = "TF@"
)

// Global temporaries defined in the program header.
const (
	// Discard receives values assigned to "_".
	Discard = GlobalFrame + "$discard"
)

// Constant type prefixes
const (
	TypeInt    = "int@"
	TypeFloat  = "float@"
	TypeString = "string@"
	TypeBool   = "bool@"
	Nil        = "nil@nil"
	True       = "bool@true"
	False      = "bool@false"
)

// FuncLabel returns the label of a user function.
func FuncLabel(name string) string {
	return "$" + name
}

// VarName returns the frame-qualified name of a local variable. The id
// keeps shadowed names apart.
func VarName(name string, id uint32) string {
	return LocalFrame + name + "$" + strconv.FormatUint(uint64(id), 10)
}
