package types

import (
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
)

// Table is the symbol table of one compilation unit: a scope tree with a
// current-scope cursor plus the function registry.
type Table struct {
	global  *Scope
	current *Scope
	nextID  uint32
	all     []*Var // every declared variable, in declaration order
	funcs   *Registry
	discard *Var

	// StrictMutability makes Exit report var declarations that are never
	// assigned again.
	StrictMutability bool
}

// NewTable creates a table holding the discard variable in the global
// scope and the built-in functions in the registry.
func NewTable() *Table {
	t := &Table{
		funcs:            NewRegistry(),
		nextID:           DiscardID + 1,
		StrictMutability: true,
	}
	t.global = NewScope(nil, GlobalScope, "global")
	t.current = t.global

	t.discard = &Var{
		ID:       DiscardID,
		Name:     "_",
		Type:     None,
		Nullable: NullYes,
		Accessed: true,
	}
	t.global.Insert(t.discard)
	t.all = append(t.all, t.discard)

	for _, f := range Builtins {
		t.funcs.Add(f)
	}
	return t
}

// Global returns the global scope.
func (t *Table) Global() *Scope { return t.global }

// Current returns the innermost open scope.
func (t *Table) Current() *Scope { return t.current }

// Funcs returns the function registry.
func (t *Table) Funcs() *Registry { return t.funcs }

// Discard returns the discard variable "_".
func (t *Table) Discard() *Var { return t.discard }

// Vars returns every variable declared so far, including "_".
func (t *Table) Vars() []*Var { return t.all }

// Declare adds a variable to the current scope. It fails with Redefinition
// when the name is already declared in the current scope; shadowing an
// outer declaration is allowed.
func (t *Table) Declare(name string, typ DataType, mutable bool, nullable Nullability, pos src.Pos) (*Var, error) {
	if t.current == t.global {
		return nil, diag.Errorf(diag.Internal, pos, "variable %s declared in global scope", name)
	}
	v := &Var{
		ID:       t.nextID,
		Name:     name,
		Type:     typ,
		Mutable:  mutable,
		Nullable: nullable,
		Pos:      pos,
	}
	if existing := t.current.Insert(v); existing != nil {
		return nil, diag.Errorf(diag.Redefinition, pos, "variable %s redeclared in this block (previous declaration at %s)", name, existing.Pos)
	}
	t.nextID++
	t.all = append(t.all, v)
	return v, nil
}

// Find resolves name from the current scope outward and marks the result
// accessed. It returns nil if no such variable is visible.
func (t *Table) Find(name string) *Var {
	v, _ := t.current.LookupParent(name)
	if v != nil {
		v.Accessed = true
	}
	return v
}

// Enter opens a new child scope of the current scope.
func (t *Table) Enter(kind ScopeKind, comment string) *Scope {
	t.current = NewScope(t.current, kind, comment)
	return t.current
}

// Exit closes the current scope and drops it from the tree. If a variable
// declared in it was never used, Exit returns an UnusedVariable error for
// the first such variable; the scope is closed regardless. Exiting the
// global scope tears the whole table down.
func (t *Table) Exit() (*Scope, error) {
	s := t.current
	var err error
	for _, v := range s.vars {
		if bad, why := v.unused(t.StrictMutability); bad {
			err = diag.Errorf(diag.UnusedVariable, v.Pos, "variable %s %s", v.Name, why)
			break
		}
	}

	if s == t.global {
		t.global = NewScope(nil, GlobalScope, "global")
		t.current = t.global
		t.all = nil
		t.funcs = NewRegistry()
		return s, err
	}

	s.detach()
	t.current = s.parent
	return s, err
}

// CanMutate reports whether v may be the target of an assignment.
func (t *Table) CanMutate(v *Var) bool {
	return v.IsDiscard() || v.Mutable
}

// AddFunction registers a function definition.
func (t *Table) AddFunction(def *FuncDef) error {
	return t.funcs.Add(def)
}

// LookupFunction returns the function named name, or nil.
func (t *Table) LookupFunction(name string) *FuncDef {
	return t.funcs.Lookup(name)
}
