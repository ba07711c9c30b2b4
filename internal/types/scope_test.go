package types

import (
	"strings"
	"testing"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
)

func testScope(parent *Scope, comment string) *Scope {
	return NewScope(parent, FunctionScope, comment)
}

func TestScopeInsertAndLookup(t *testing.T) {
	scope := testScope(nil, "test")

	v := &Var{Name: "x", Type: I32}
	if existing := scope.Insert(v); existing != nil {
		t.Errorf("Insert() returned non-nil for first insert")
	}
	if found := scope.Lookup("x"); found != v {
		t.Errorf("Lookup() did not return inserted variable")
	}
	if v.Scope() != scope {
		t.Errorf("Insert() did not record the scope")
	}

	v2 := &Var{Name: "x", Type: F64}
	if existing := scope.Insert(v2); existing != v {
		t.Errorf("Insert() should return first variable for duplicate")
	}
	if len(scope.Vars()) != 1 {
		t.Errorf("duplicate insert changed the scope")
	}
}

func TestScopeLookupParent(t *testing.T) {
	parent := testScope(nil, "parent")
	child := testScope(parent, "child")

	v := &Var{Name: "x", Type: I32}
	parent.Insert(v)

	found, foundScope := child.LookupParent("x")
	if found != v || foundScope != parent {
		t.Errorf("LookupParent() = (%v, %v), want parent's x", found, foundScope)
	}
	if child.Lookup("x") != nil {
		t.Errorf("Lookup() must not search parents")
	}
	if v, s := child.LookupParent("missing"); v != nil || s != nil {
		t.Errorf("LookupParent(missing) = (%v, %v), want (nil, nil)", v, s)
	}
}

func TestScopeShadowing(t *testing.T) {
	parent := testScope(nil, "parent")
	child := testScope(parent, "child")

	outer := &Var{Name: "x", Type: I32}
	inner := &Var{Name: "x", Type: U8}
	parent.Insert(outer)
	child.Insert(inner)

	if found, _ := child.LookupParent("x"); found != inner {
		t.Errorf("child lookup should find the shadowing variable")
	}
	if found, _ := parent.LookupParent("x"); found != outer {
		t.Errorf("parent lookup should find its own variable")
	}
}

func TestScopeHashCollisions(t *testing.T) {
	saved := hashName
	hashName = func(string) uint64 { return 7 }
	defer func() { hashName = saved }()

	s := testScope(nil, "collide")
	a := &Var{Name: "a"}
	b := &Var{Name: "b"}
	if s.Insert(a) != nil || s.Insert(b) != nil {
		t.Fatal("distinct names in one bucket must both insert")
	}
	if s.Lookup("a") != a || s.Lookup("b") != b {
		t.Errorf("lookup must compare exact names within a bucket")
	}
	if s.Lookup("c") != nil {
		t.Errorf("Lookup(c) should miss")
	}

	r := NewRegistry()
	if err := r.Add(&FuncDef{Name: "f"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(&FuncDef{Name: "g"}); err != nil {
		t.Fatalf("colliding distinct function names: %v", err)
	}
	if r.Lookup("g") == nil || r.Lookup("f") == nil || r.Lookup("h") != nil {
		t.Errorf("registry lookup within a shared bucket failed")
	}
}

func TestScopeString(t *testing.T) {
	g := NewScope(nil, GlobalScope, "global")
	f := NewScope(g, FunctionScope, "main")
	f.Insert(&Var{ID: 1, Name: "x", Type: I32, Nullable: NullYes})

	out := g.String()
	for _, want := range []string{"global scope global {", "function scope main {", "#1 x: ?i32"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}

func TestTableDiscard(t *testing.T) {
	tab := NewTable()
	d := tab.Discard()
	if d.ID != 0 || d.Name != "_" || !d.IsDiscard() {
		t.Fatalf("discard = %+v", d)
	}
	if tab.Global().Lookup("_") != d {
		t.Errorf("discard must live in the global scope")
	}
	if !tab.CanMutate(d) {
		t.Errorf("discard must accept assignments")
	}
}

func TestTableDeclareInGlobal(t *testing.T) {
	tab := NewTable()
	_, err := tab.Declare("x", I32, true, NullNo, src.NoPos)
	if !diag.Is(err, diag.Internal) {
		t.Errorf("Declare in global scope = %v, want Internal", err)
	}
}

func TestTableDeclareIDs(t *testing.T) {
	tab := NewTable()
	tab.Enter(FunctionScope, "main")

	a, err := tab.Declare("a", I32, false, NullNo, src.NoPos)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tab.Declare("b", None, true, NullUnknown, src.NoPos)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("ids = %d, %d; want 1, 2", a.ID, b.ID)
	}
	if n := len(tab.Vars()); n != 3 {
		t.Errorf("flat log has %d entries, want 3", n)
	}
}

func TestTableScoping(t *testing.T) {
	tab := NewTable()
	tab.Enter(FunctionScope, "main")

	if _, err := tab.Declare("x", I32, false, NullNo, src.NoPos); err != nil {
		t.Fatal(err)
	}
	_, err := tab.Declare("x", F64, false, NullNo, src.NoPos)
	if !diag.Is(err, diag.Redefinition) {
		t.Errorf("same-scope redeclaration = %v, want Redefinition", err)
	}

	// Shadowing in a nested scope is allowed.
	tab.Enter(IfScope, "then")
	inner, err := tab.Declare("x", U8, false, NullNo, src.NoPos)
	if err != nil {
		t.Fatalf("shadowing declaration failed: %v", err)
	}
	if tab.Find("x") != inner {
		t.Errorf("Find should resolve the innermost x")
	}
	if _, err := tab.Exit(); err != nil {
		t.Fatalf("Exit() = %v", err)
	}

	// The sibling scope may reuse the name; the exited one is gone.
	tab.Enter(IfScope, "else")
	if v := tab.Current().Lookup("x"); v != nil {
		t.Errorf("variable leaked into sibling scope")
	}
	if _, err := tab.Declare("y", I32, false, NullNo, src.NoPos); err != nil {
		t.Fatal(err)
	}
	tab.Find("y")
	tab.Exit()

	if v := tab.Find("y"); v != nil {
		t.Errorf("y visible after its scope exited")
	}
	if n := len(tab.Current().Children()); n != 0 {
		t.Errorf("exited scopes still attached: %d", n)
	}
}

func TestTableFindMarksAccessed(t *testing.T) {
	tab := NewTable()
	tab.Enter(FunctionScope, "f")
	v, _ := tab.Declare("x", I32, false, NullNo, src.NoPos)
	if v.Accessed {
		t.Fatal("fresh variable must not be accessed")
	}
	if tab.Find("x") != v || !v.Accessed {
		t.Errorf("Find must mark the variable accessed")
	}
	if tab.Find("nope") != nil {
		t.Errorf("Find(nope) should return nil")
	}
}

func TestTableExitUnused(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		mutable  bool
		access   bool
		modify   bool
		param    bool
		wantKind diag.Kind
	}{
		{"unused const", true, false, false, false, false, diag.UnusedVariable},
		{"used const", true, false, true, false, false, diag.OK},
		{"var never modified", true, true, true, false, false, diag.UnusedVariable},
		{"var never modified lax", false, true, true, false, false, diag.OK},
		{"var modified", true, true, true, true, false, diag.OK},
		{"unused param", true, false, false, false, true, diag.OK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := NewTable()
			tab.StrictMutability = tt.strict
			tab.Enter(FunctionScope, "f")
			v, _ := tab.Declare("x", I32, tt.mutable, NullNo, src.NewPos("a.zig", 2, 3))
			v.Param = tt.param
			if tt.access {
				tab.Find("x")
			}
			v.Modified = tt.modify

			s, err := tab.Exit()
			if got := diag.KindOf(err); got != tt.wantKind {
				t.Errorf("Exit() kind = %v, want %v (%v)", got, tt.wantKind, err)
			}
			if s.Kind() != FunctionScope || tab.Current() != tab.Global() {
				t.Errorf("Exit() must close the scope even when reporting")
			}
		})
	}
}

func TestTableExitGlobalTearsDown(t *testing.T) {
	tab := NewTable()
	tab.Exit()
	if len(tab.Vars()) != 0 || tab.Funcs().Len() != 0 {
		t.Errorf("global exit must drop every variable and function")
	}
}

func TestTableBuiltins(t *testing.T) {
	tab := NewTable()
	for _, name := range []string{
		"ifj.readstr", "ifj.readi32", "ifj.readf64", "ifj.write", "ifj.i2f", "ifj.f2i", "ifj.string",
		"ifj.length", "ifj.concat", "ifj.substring", "ifj.strcmp", "ifj.ord", "ifj.chr",
	} {
		f := tab.LookupFunction(name)
		if f == nil || !f.Builtin {
			t.Errorf("built-in %s missing", name)
		}
	}
	if got := tab.LookupFunction("ifj.substring").Signature(); got != "ifj.substring(s: []u8, i: i32, j: i32) ?[]u8" {
		t.Errorf("Signature() = %q", got)
	}
	if w := tab.LookupFunction("ifj.write"); w.Params[0].Type != Undefined {
		t.Errorf("ifj.write must take an unconstrained parameter")
	}

	err := tab.AddFunction(&FuncDef{Name: "ifj.write"})
	if !diag.Is(err, diag.Redefinition) {
		t.Errorf("redefining a built-in = %v, want Redefinition", err)
	}
}

func TestNullability(t *testing.T) {
	if NullabilityOf(true) != NullYes || NullabilityOf(false) != NullNo {
		t.Error("NullabilityOf mismatch")
	}
	if NullUnknown.Known() || !NullNo.Known() {
		t.Error("Known mismatch")
	}
	if got := TypeString(F64, true); got != "?f64" {
		t.Errorf("TypeString = %q", got)
	}
	if !I32.IsNumeric() || U8.IsNumeric() || None.IsResolved() || !U8.IsResolved() {
		t.Error("DataType predicates mismatch")
	}
}

func TestIsBuiltinName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ifj.write", true},
		{"ifj.nothing", true},
		{"ifj.", false},
		{"write", false},
		{"ifjwrite", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsBuiltinName(tt.name); got != tt.want {
			t.Errorf("IsBuiltinName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	for _, f := range Builtins {
		if !IsBuiltinName(f.Name) {
			t.Errorf("catalog entry %s has no built-in name", f.Name)
		}
	}
}
