package types

import "github.com/you-not-fish/ifjc/internal/src"

// DiscardID is the id of the discard variable "_".
const DiscardID uint32 = 0

// Var is a declared variable, parameter or if/while binding.
//
// Type may start as None and is back-filled the first time a value of a
// known type flows into the variable.
type Var struct {
	ID       uint32
	Name     string
	Type     DataType
	Mutable  bool
	Nullable Nullability
	Accessed bool // read at least once
	Modified bool // assigned after its declaration
	Param    bool // function parameter
	Pos      src.Pos

	scope *Scope
}

// Scope returns the scope the variable was declared in.
func (v *Var) Scope() *Scope { return v.scope }

// IsDiscard reports whether v is the discard variable "_".
func (v *Var) IsDiscard() bool { return v.ID == DiscardID }

// TypeString formats the variable type, as in "?i32".
func (v *Var) TypeString() string {
	return TypeString(v.Type, v.Nullable.Bool())
}

// unused reports whether v breaks the usage rules checked on scope exit.
func (v *Var) unused(strictMutability bool) (bool, string) {
	if v.Param || v.IsDiscard() {
		return false, ""
	}
	if !v.Accessed {
		return true, "declared and not used"
	}
	if strictMutability && v.Mutable && !v.Modified {
		return true, "declared with var but never modified"
	}
	return false, ""
}
