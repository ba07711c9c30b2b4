// Package types implements the IFJ24 symbol table: data types, variables,
// the scope tree and the function registry.
package types

import "fmt"

// DataType is the type of a value, variable or function result.
type DataType uint8

const (
	Undefined DataType = iota // unconstrained built-in parameter ("any")
	None                      // not resolved yet
	I32
	F64
	U8 // []u8, a byte string
	Void
	Bool // result of a truth expression
)

var dataTypeNames = [...]string{
	Undefined: "any",
	None:      "<unresolved>",
	I32:       "i32",
	F64:       "f64",
	U8:        "[]u8",
	Void:      "void",
	Bool:      "bool",
}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return fmt.Sprintf("DataType(%d)", t)
}

// IsNumeric reports whether t is i32 or f64.
func (t DataType) IsNumeric() bool {
	return t == I32 || t == F64
}

// IsResolved reports whether t is a concrete type.
func (t DataType) IsResolved() bool {
	return t != None && t != Undefined
}

// Nullability is a tri-state nullable flag.
type Nullability uint8

const (
	NullUnknown Nullability = iota // not decided yet, adopted from the first value
	NullYes
	NullNo
)

// NullabilityOf converts a known flag.
func NullabilityOf(nullable bool) Nullability {
	if nullable {
		return NullYes
	}
	return NullNo
}

// Known reports whether n has been decided.
func (n Nullability) Known() bool { return n != NullUnknown }

// Bool reports whether n is NullYes.
func (n Nullability) Bool() bool { return n == NullYes }

func (n Nullability) String() string {
	switch n {
	case NullYes:
		return "nullable"
	case NullNo:
		return "non-null"
	}
	return "unknown"
}

// TypeString formats a type with an optional nullable prefix, as in "?i32".
func TypeString(t DataType, nullable bool) string {
	if nullable {
		return "?" + t.String()
	}
	return t.String()
}
