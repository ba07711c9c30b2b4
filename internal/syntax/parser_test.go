package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/types"
)

// ----------------------------------------------------------------------------
// Test helpers

const prolog = `const ifj = @import("ifj24.zig");
`

func parseSource(t *testing.T, source string) (*Result, *types.Table, error) {
	t.Helper()
	buf, err := Tokenize("test.zig", strings.NewReader(source))
	if err != nil {
		return nil, nil, err
	}
	tab := types.NewTable()
	res, err := Parse(buf, tab)
	return res, tab, err
}

func parseFile(t *testing.T, source string) *Result {
	t.Helper()
	res, _, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return res
}

// mainBody wraps statements into a program with an empty-signature main.
func mainBody(stmts string) string {
	return prolog + "pub fn main() void {\n" + stmts + "\n}\n"
}

const sampleProgram = prolog + `
pub fn add(a: i32, b: i32) i32 {
    return a + b;
}

pub fn main() void {
    const x: i32 = add(1, 2);
    var y = x * 2;
    y = y + 1;
    const s: ?[]u8 = ifj.readstr();
    if (s) |str| {
        ifj.write(str);
    } else {
        ifj.write("none\n");
    }
    while (y > 0) {
        y = y - 1;
    }
    _ = add(y, x,);
    ifj.write(y);
}
`

// ----------------------------------------------------------------------------
// Pass 1

func TestCollectFunctions(t *testing.T) {
	source := prolog + `
pub fn main() void { helper(1, null); }
pub fn helper(n: i32, s: ?[]u8,) ?f64 { return null; }
pub fn noop() void {}
`
	buf := tokenize(t, source)
	tab := types.NewTable()
	if err := CollectFunctions(buf, tab); err != nil {
		t.Fatal(err)
	}

	h := tab.LookupFunction("helper")
	if h == nil {
		t.Fatal("helper not registered")
	}
	if got := h.Signature(); got != "helper(n: i32, s: ?[]u8) ?f64" {
		t.Errorf("helper signature = %q", got)
	}
	if h.Builtin {
		t.Errorf("user function marked built-in")
	}
	if f := tab.LookupFunction("noop"); f == nil || f.Return != types.Void {
		t.Errorf("noop = %+v", f)
	}
}

func TestCollectFunctionsErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   diag.Kind
	}{
		{"no_main", prolog + "pub fn f() void {}", diag.UndefinedFunctionOrVariable},
		{"empty", prolog, diag.UndefinedFunctionOrVariable},
		{"main_params", prolog + "pub fn main(a: i32) void { }", diag.InvalidFunctionParameter},
		{"main_result", prolog + "pub fn main() i32 { return 0; }", diag.InvalidFunctionParameter},
		{"redefined", prolog + "pub fn main() void {}\npub fn main() void {}", diag.Redefinition},
		{"redefined_other", prolog + "pub fn f() void {}\npub fn f(a: i32) void {}\npub fn main() void {}", diag.Redefinition},
		{"nested_pub", prolog + "pub fn main() void { pub fn f() void {} }", diag.Syntax},
		{"unclosed", prolog + "pub fn main() void { ", diag.Syntax},
		{"extra_brace", prolog + "pub fn main() void { } }", diag.Syntax},
		{"missing_fn", prolog + "pub main() void {}", diag.Syntax},
		{"missing_type", prolog + "pub fn main(a:) void {}", diag.Syntax},
		{"missing_colon", prolog + "pub fn f(a i32) void {}", diag.Syntax},
		{"bad_return", prolog + "pub fn main() bool {}", diag.Syntax},
		{"void_param", prolog + "pub fn f(a: void) void {}", diag.Syntax},
		{"no_body", prolog + "pub fn main() void;", diag.Syntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := tokenize(t, tt.source)
			err := CollectFunctions(buf, types.NewTable())
			if got := diag.KindOf(err); got != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", got, tt.kind, err)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Pass 2

func TestParseProgram(t *testing.T) {
	res := parseFile(t, sampleProgram)
	if res.Unused != nil {
		t.Errorf("unexpected unused signal: %v", res.Unused)
	}

	f := res.File
	if f.Import != ImportPath {
		t.Errorf("Import = %q", f.Import)
	}
	if len(f.Funcs) != 2 || f.Funcs[0].Name != "add" || f.Funcs[1].Name != "main" {
		t.Fatalf("functions = %v", f.Funcs)
	}

	add := f.Funcs[0]
	if len(add.Params) != 2 || !add.Params[0].Param || add.Params[1].Type != types.I32 {
		t.Errorf("add params = %+v", add.Params)
	}
	if add.Def != nil && add.Def.Name != "add" {
		t.Errorf("add.Def = %+v", add.Def)
	}

	body := f.Funcs[1].Body.Stmts
	wantKinds := []string{"*syntax.Declare", "*syntax.Declare", "*syntax.Assign", "*syntax.Declare",
		"*syntax.IfElse", "*syntax.While", "*syntax.Assign", "*syntax.FunctionCall"}
	if len(body) != len(wantKinds) {
		t.Fatalf("main has %d statements, want %d", len(body), len(wantKinds))
	}
	for i, s := range body {
		if got := fmt.Sprintf("%T", s); got != wantKinds[i] {
			t.Errorf("stmt %d = %s, want %s", i, got, wantKinds[i])
		}
	}

	x := body[0].(*Declare)
	if x.Var.Name != "x" || x.Var.Mutable || x.Var.Type != types.I32 || x.Var.Nullable != types.NullNo {
		t.Errorf("x = %+v", x.Var)
	}
	if call, ok := x.Value.(*FunctionCall); !ok || call.Name != "add" || len(call.Args) != 2 {
		t.Errorf("x initializer = %#v", x.Value)
	}

	y := body[1].(*Declare)
	if !y.Var.Mutable || y.Var.Type != types.None || y.Var.Nullable != types.NullUnknown || !y.Var.Modified {
		t.Errorf("y = %+v", y.Var)
	}
	if got := y.Value.(*Expression).String(); got != "x 2 *" {
		t.Errorf("y initializer = %q", got)
	}

	s := body[3].(*Declare)
	if s.Var.Nullable != types.NullYes || s.Var.Type != types.U8 {
		t.Errorf("s = %+v", s.Var)
	}
	if call := s.Value.(*FunctionCall); call.Name != "ifj.readstr" {
		t.Errorf("s initializer calls %q", call.Name)
	}

	ifs := body[4].(*IfElse)
	if ifs.Cond != nil || ifs.Subject == nil || ifs.Subject.Var != s.Var {
		t.Errorf("if is not the binding form: %+v", ifs)
	}
	if ifs.Binding == nil || ifs.Binding.Name != "str" || ifs.Binding.Nullable != types.NullNo {
		t.Errorf("binding = %+v", ifs.Binding)
	}
	if ifs.Binding.Scope().Kind() != types.IfScope || ifs.Then.End.Scope != ifs.Binding.Scope() {
		t.Errorf("binding not declared in the then scope")
	}
	if ifs.Else == nil || len(ifs.Else.Body.Stmts) != 1 {
		t.Errorf("else branch = %+v", ifs.Else)
	}

	w := body[5].(*While)
	if w.Cond == nil || w.Cond.Op != _Gtr || w.Binding != nil {
		t.Errorf("while condition = %+v", w.Cond)
	}
	if w.Body.End.Scope.Kind() != types.WhileScope {
		t.Errorf("while body scope = %v", w.Body.End.Scope.Kind())
	}

	discard := body[6].(*Assign)
	if !discard.Var.IsDiscard() {
		t.Errorf("_ assignment target = %+v", discard.Var)
	}
	if call := discard.Value.(*FunctionCall); len(call.Args) != 2 {
		t.Errorf("trailing comma call has %d args", len(call.Args))
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name  string
		stmts string
		check func(t *testing.T, s Stmt)
	}{
		{
			"var_typed",
			"var a: f64 = 1.5; a = a * 2.0;",
			func(t *testing.T, s Stmt) {
				d := s.(*Declare)
				if d.Var.Type != types.F64 || !d.Var.Mutable || d.Var.Nullable != types.NullNo {
					t.Errorf("a = %+v", d.Var)
				}
			},
		},
		{
			"const_null",
			"const a: ?i32 = null; ifj.write(a);",
			func(t *testing.T, s Stmt) {
				d := s.(*Declare)
				v, ok := d.Value.(*Expression).Single().(*Value)
				if !ok || !v.Null || v.Type != types.None {
					t.Errorf("initializer = %#v", d.Value)
				}
			},
		},
		{
			"builtin_stmt",
			`ifj.write("hi");`,
			func(t *testing.T, s Stmt) {
				c := s.(*FunctionCall)
				if c.Name != "ifj.write" || len(c.Args) != 1 {
					t.Errorf("call = %+v", c)
				}
				if v := c.Args[0].(*Value); v.Type != types.U8 || v.Lit != "hi" {
					t.Errorf("arg = %+v", v)
				}
			},
		},
		{
			"if_without_else",
			"const a = 1; if (a == 1) { ifj.write(a); }",
			func(t *testing.T, s Stmt) {
				if _, ok := s.(*Declare); !ok {
					t.Errorf("first statement = %T", s)
				}
			},
		},
		{
			"while_binding",
			"var a: ?i32 = 1; while (a) |v| { a = null; ifj.write(v); }",
			func(t *testing.T, s Stmt) {
				d := s.(*Declare)
				if !d.Var.Modified {
					t.Errorf("a not marked modified")
				}
			},
		},
		{
			"shadow_in_block",
			"const a = 1; if (a < 2) { const a = 2.5; ifj.write(a); }",
			nil,
		},
		{
			"bare_return",
			"return;",
			func(t *testing.T, s Stmt) {
				if r := s.(*Return); r.Value != nil {
					t.Errorf("return value = %v", r.Value)
				}
			},
		},
		{
			"self_reference_sees_outer",
			"const a = 1; if (a < 2) { const a = a + 1; ifj.write(a); }",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseFile(t, mainBody(tt.stmts))
			if res.Unused != nil {
				t.Errorf("unexpected unused signal: %v", res.Unused)
			}
			if tt.check != nil {
				tt.check(t, res.File.Funcs[0].Body.Stmts[0])
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   diag.Kind
	}{
		{"lexical", mainBody("const a = 007;"), diag.Lexical},
		{"no_prolog", "pub fn main() void {}", diag.Syntax},
		{"bad_import", `const ifj = @import("std");` + "\npub fn main() void {}", diag.Syntax},
		{"prolog_no_semi", `const ifj = @import("ifj24.zig")` + "\npub fn main() void {}", diag.Syntax},
		{"trailing_garbage", prolog + "pub fn main() void {}\nconst x = 1;", diag.Syntax},
		{"missing_semi", mainBody("const a = 1 ifj.write(a);"), diag.Syntax},
		{"no_initializer", mainBody("var a: i32;"), diag.Syntax},
		{"bad_type", mainBody("const a: void = 1;"), diag.Syntax},
		{"bare_expression", mainBody("1 + 2;"), diag.Syntax},
		{"expression_stmt", mainBody("const a = 1; a;"), diag.Syntax},
		{"nested_block", mainBody("{ }"), diag.Syntax},
		{"assign_expression", mainBody("var a = 1; var b = 2; a = b = 3;"), diag.Syntax},
		{"call_bad_arg", mainBody("ifj.write(1 + 2);"), diag.Syntax},
		{"call_nested", mainBody("ifj.write(ifj.readi32());"), diag.Syntax},
		{"builtin_no_dot", mainBody("ifj write(1);"), diag.Syntax},
		{"if_no_paren", mainBody("const a = 1; if a < 2 { }"), diag.Syntax},
		{"if_plain_var", mainBody("const a = 1; if (a) { }"), diag.Syntax},
		{"binding_unclosed", mainBody("const a: ?i32 = 1; if (a) |b { }"), diag.Syntax},
		{"else_without_block", mainBody("const a = 1; if (a < 2) { } else ifj.write(a);"), diag.Syntax},
		{"undefined_in_expr", mainBody("const a = b + 1;"), diag.UndefinedFunctionOrVariable},
		{"undefined_assign", mainBody("b = 1;"), diag.UndefinedFunctionOrVariable},
		{"undefined_arg", mainBody("ifj.write(b);"), diag.UndefinedFunctionOrVariable},
		{"undefined_subject", mainBody("if (b) |c| { }"), diag.UndefinedFunctionOrVariable},
		{"out_of_scope", mainBody("const a = 1; if (a < 2) { const b = 1; ifj.write(b); } ifj.write(b);"), diag.UndefinedFunctionOrVariable},
		{"redeclared", mainBody("const a = 1; var a = 2;"), diag.Redefinition},
		{"redeclared_param", prolog + "pub fn f(a: i32, a: i32) void {}\npub fn main() void {}", diag.Redefinition},
		{"param_shadowed", prolog + "pub fn f(a: i32) void { const a = 1; }\npub fn main() void {}", diag.Redefinition},
		{"binding_shadows", mainBody("const a: ?i32 = 1; if (a) |a| { ifj.write(a); }"), diag.OK},
		{"no_main", prolog + "pub fn f() void {}", diag.UndefinedFunctionOrVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseSource(t, tt.source)
			if got := diag.KindOf(err); got != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", got, tt.kind, err)
			}
		})
	}
}

func TestParseUnusedSignal(t *testing.T) {
	tests := []struct {
		name  string
		stmts string
		want  string // substring of the first signal, empty for none
	}{
		{"all_used", "const a = 1; ifj.write(a);", ""},
		{"unused_const", "const a = 1;", "variable a declared and not used"},
		{"first_kept", "const a = 1; const b = 2;", "variable a"},
		{"var_never_modified", "var a = 1; ifj.write(a);", "never modified"},
		{"inner_scope", "const a = 1; if (a < 2) { const b = 1; }", "variable b"},
		{"unused_binding", "const a: ?i32 = 1; if (a) |b| { }", "variable b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseFile(t, mainBody(tt.stmts))
			if tt.want == "" {
				if res.Unused != nil {
					t.Errorf("Unused = %v, want nil", res.Unused)
				}
				return
			}
			if !diag.Is(res.Unused, diag.UnusedVariable) {
				t.Fatalf("Unused = %v, want UnusedVariable", res.Unused)
			}
			if !strings.Contains(res.Unused.Error(), tt.want) {
				t.Errorf("Unused = %q, want it to mention %q", res.Unused, tt.want)
			}
		})
	}
}

func TestParseUnusedParamsExempt(t *testing.T) {
	res := parseFile(t, prolog+"pub fn f(a: i32) void {}\npub fn main() void {}")
	if res.Unused != nil {
		t.Errorf("unused parameter reported: %v", res.Unused)
	}
}

func TestParseScopesReleased(t *testing.T) {
	_, tab, err := parseSource(t, sampleProgram)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Current() != tab.Global() {
		t.Errorf("parser left a scope open")
	}
	if n := len(tab.Global().Children()); n != 0 {
		t.Errorf("%d function scopes still attached", n)
	}
}

// ----------------------------------------------------------------------------
// Printing

func TestFprint(t *testing.T) {
	res := parseFile(t, sampleProgram)
	var buf bytes.Buffer
	Fprint(&buf, res.File)
	out := buf.String()

	for _, want := range []string{
		`Import: "ifj24.zig"`,
		"Function test.zig:3:1 add(a: i32, b: i32) i32",
		"Param #1 a: i32",
		"Expression test.zig:4:12 [a b +]",
		"Declare test.zig:8:5 const #3 x: i32",
		"Unwrap #5 s: ?[]u8 |str|",
		"TruthExpression test.zig:17:14 >",
		"BlockEnd",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Fprint output missing %q:\n%s", want, out)
		}
	}
}

func TestFprintJSON(t *testing.T) {
	res := parseFile(t, sampleProgram)
	var buf bytes.Buffer
	if err := FprintJSON(&buf, res.File); err != nil {
		t.Fatal(err)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if tree["type"] != "File" {
		t.Errorf("root type = %v", tree["type"])
	}
	funcs, _ := tree["funcs"].([]interface{})
	if len(funcs) != 2 {
		t.Errorf("funcs = %v", tree["funcs"])
	}
}

func TestFprintYAML(t *testing.T) {
	res := parseFile(t, sampleProgram)
	var buf bytes.Buffer
	if err := FprintYAML(&buf, res.File); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"type: File", "name: main", "postfix:", "subject:"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
}

// ----------------------------------------------------------------------------
// Walk tests

func TestWalk(t *testing.T) {
	res := parseFile(t, sampleProgram)

	var nodeCount, callCount, endCount int
	Walk(res.File, func(n Node) bool {
		nodeCount++
		switch n.(type) {
		case *FunctionCall:
			callCount++
		case *BlockEnd:
			endCount++
		}
		return true
	})

	if nodeCount == 0 {
		t.Error("Walk visited no nodes")
	}
	if callCount != 6 {
		t.Errorf("expected 6 calls, got %d", callCount)
	}
	// add, main, then, else, while
	if endCount != 5 {
		t.Errorf("expected 5 block ends, got %d", endCount)
	}
}

func TestInspect(t *testing.T) {
	res := parseFile(t, sampleProgram)

	var vars []string
	Inspect(res.File, func(n Node) bool {
		if _, ok := n.(*While); ok {
			return false
		}
		if v, ok := n.(*Variable); ok {
			vars = append(vars, v.Var.Name)
		}
		return true
	})

	// Variables inside the skipped while loop are not visited.
	want := "a b x y s str y x y"
	if got := strings.Join(vars, " "); got != want {
		t.Errorf("visited variables %q, want %q", got, want)
	}
}

// ----------------------------------------------------------------------------
// Fuzz test

func FuzzParse(f *testing.F) {
	seeds := []string{
		prolog + "pub fn main() void {}",
		sampleProgram,
		mainBody("var a = 1 + 2 * 3 - 4 / 5; a = a;"),
		mainBody("const a: ?i32 = null; if (a) |b| { ifj.write(b); } else { }"),
		mainBody("var i = 0; while (i < 10) { i = i + 1; }"),
		mainBody("_ = ifj.substring(\"abc\", 0, 1,);"),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, source string) {
		// Errors are acceptable, but the parser should not panic.
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", source, r)
			}
		}()
		buf, err := Tokenize("fuzz", strings.NewReader(source))
		if err != nil {
			return
		}
		Parse(buf, types.NewTable())
	})
}
