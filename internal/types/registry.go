package types

import (
	"strings"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
)

// Param is one declared function parameter.
type Param struct {
	Name     string
	Type     DataType // Undefined accepts any argument type
	Nullable bool
}

// FuncDef is a function signature.
type FuncDef struct {
	Name           string
	Params         []Param
	Return         DataType
	NullableReturn bool
	Builtin        bool
	Pos            src.Pos
}

// Signature formats the definition as "name(a: i32, b: ?[]u8) ?f64".
func (f *FuncDef) Signature() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Name != "" {
			b.WriteString(p.Name)
			b.WriteString(": ")
		}
		b.WriteString(TypeString(p.Type, p.Nullable))
	}
	b.WriteString(") ")
	b.WriteString(TypeString(f.Return, f.NullableReturn))
	return b.String()
}

// Registry stores function definitions by name hash. Colliding names are
// chained; redefinition is detected by exact name within a bucket.
type Registry struct {
	buckets map[uint64][]*FuncDef
	order   []*FuncDef
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{buckets: make(map[uint64][]*FuncDef)}
}

// Add registers def. It fails with Redefinition if the name is taken.
func (r *Registry) Add(def *FuncDef) error {
	h := hashName(def.Name)
	for _, f := range r.buckets[h] {
		if f.Name == def.Name {
			return diag.Errorf(diag.Redefinition, def.Pos, "function %s redeclared", def.Name)
		}
	}
	r.buckets[h] = append(r.buckets[h], def)
	r.order = append(r.order, def)
	return nil
}

// Lookup returns the definition named name, or nil.
func (r *Registry) Lookup(name string) *FuncDef {
	for _, f := range r.buckets[hashName(name)] {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Funcs returns all definitions in registration order.
func (r *Registry) Funcs() []*FuncDef { return r.order }

// Len returns the number of registered functions.
func (r *Registry) Len() int { return len(r.order) }
