package types

import (
	"fmt"
	"strings"

	"github.com/segmentio/fasthash/fnv1a"
)

// ScopeKind tells what construct opened a scope.
type ScopeKind uint8

const (
	GlobalScope ScopeKind = iota
	FunctionScope
	IfScope
	WhileScope
	ForScope
	SwitchScope
)

var scopeKindNames = [...]string{
	GlobalScope:   "global",
	FunctionScope: "function",
	IfScope:       "if",
	WhileScope:    "while",
	ForScope:      "for",
	SwitchScope:   "switch",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return fmt.Sprintf("ScopeKind(%d)", k)
}

// hashName buckets variable and function names.
var hashName = fnv1a.HashString64

// Scope is a lexical scope. Scopes form a tree rooted at the global scope.
// Variables live in hash buckets; colliding names are chained in
// declaration order.
type Scope struct {
	kind     ScopeKind
	parent   *Scope
	children []*Scope
	buckets  map[uint64][]*Var
	vars     []*Var // declaration order
	comment  string
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, kind ScopeKind, comment string) *Scope {
	s := &Scope{
		kind:    kind,
		parent:  parent,
		buckets: make(map[uint64][]*Var),
		comment: comment,
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Kind returns the scope kind.
func (s *Scope) Kind() ScopeKind { return s.kind }

// Parent returns the parent scope, or nil for the global scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Children returns the live child scopes.
func (s *Scope) Children() []*Scope { return s.children }

// Comment returns the scope's debugging comment.
func (s *Scope) Comment() string { return s.comment }

// Vars returns the variables declared in s in declaration order.
func (s *Scope) Vars() []*Var { return s.vars }

// Lookup returns the variable named name declared directly in s, or nil.
func (s *Scope) Lookup(name string) *Var {
	for _, v := range s.buckets[hashName(name)] {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// LookupParent searches s and then its ancestors. It returns the variable
// and the scope it was found in, or (nil, nil).
func (s *Scope) LookupParent(name string) (*Var, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if v := scope.Lookup(name); v != nil {
			return v, scope
		}
	}
	return nil, nil
}

// Insert adds v to s. If a variable with the same name already exists in s,
// Insert returns it and leaves s unchanged.
func (s *Scope) Insert(v *Var) *Var {
	if existing := s.Lookup(v.Name); existing != nil {
		return existing
	}
	h := hashName(v.Name)
	s.buckets[h] = append(s.buckets[h], v)
	s.vars = append(s.vars, v)
	v.scope = s
	return nil
}

// detach removes s from its parent's children.
func (s *Scope) detach() {
	p := s.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == s {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

// String returns a string representation of the scope tree for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	s.writeTo(&buf, 0)
	return buf.String()
}

func (s *Scope) writeTo(buf *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(buf, "%s%s scope %s {\n", prefix, s.kind, s.comment)
	for _, v := range s.vars {
		fmt.Fprintf(buf, "%s  #%d %s: %s\n", prefix, v.ID, v.Name, v.TypeString())
	}
	for _, child := range s.children {
		child.writeTo(buf, indent+1)
	}
	fmt.Fprintf(buf, "%s}\n", prefix)
}
