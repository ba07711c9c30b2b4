package syntax

import (
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
	"github.com/you-not-fish/ifjc/internal/types"
)

// ImportPath is the only module the prolog may import.
const ImportPath = "ifj24.zig"

// Result is the outcome of a successful parse.
type Result struct {
	File *File

	// Unused is the first scope-exit signal about an unused variable, or
	// nil. It does not stop parsing; the caller reports it once no hard
	// error occurred.
	Unused error
}

// Parse runs both passes over buf. Declarations go into table. The first
// hard error aborts parsing.
func Parse(buf *Buffer, table *types.Table) (*Result, error) {
	if err := CollectFunctions(buf, table); err != nil {
		return nil, err
	}
	p := newParser(buf, table)
	f, err := p.file()
	if err != nil {
		return nil, err
	}
	return &Result{File: f, Unused: p.unused}, nil
}

// parser is the recursive-descent second pass. It walks the buffer from the
// start; expressions and conditions are handed to the precedence analyzer.
type parser struct {
	buf   *Buffer
	table *types.Table

	// Current token info (cached from the buffer)
	tok Token
	lit string
	pos src.Pos

	unused error
}

func newParser(buf *Buffer, table *types.Table) *parser {
	p := &parser{buf: buf, table: table}
	p.seek(0)
	return p
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *parser) seek(i int) {
	p.buf.Seek(i)
	it := p.buf.Peek()
	p.tok, p.lit, p.pos = it.Tok, it.Lit, it.Pos
}

// next advances to the next token.
func (p *parser) next() {
	p.seek(p.buf.Index() + 1)
}

// peekAt returns the token n positions past the current one.
func (p *parser) peekAt(n int) Token {
	return p.buf.At(p.buf.Index() + n).Tok
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, it returns a syntax error.
func (p *parser) want(tok Token) error {
	if !p.got(tok) {
		return p.syntaxError("expected " + tok.String())
	}
	return nil
}

// name consumes an identifier.
func (p *parser) name() (Item, error) {
	it := p.buf.Peek()
	if p.tok != _Name {
		return it, p.syntaxError("expected identifier")
	}
	p.next()
	return it, nil
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError returns a syntax error at the current position.
func (p *parser) syntaxError(msg string) error {
	return p.syntaxErrorAt(p.pos, msg)
}

// syntaxErrorAt returns a syntax error at a specific position.
func (p *parser) syntaxErrorAt(pos src.Pos, msg string) error {
	found := p.buf.Peek().String()
	if p.tok == _EOF {
		found = "EOF"
	}
	return diag.Errorf(diag.Syntax, pos, "unexpected %s, %s", found, msg)
}

// exitScope closes the current scope and remembers the first unused
// variable signal.
func (p *parser) exitScope() *types.Scope {
	s, err := p.table.Exit()
	if err != nil && p.unused == nil {
		p.unused = err
	}
	return s
}

// ----------------------------------------------------------------------------
// Program structure

// file parses: prolog function* EOF
func (p *parser) file() (*File, error) {
	f := &File{}
	f.pos = p.pos

	if err := p.prolog(f); err != nil {
		return nil, err
	}
	for p.tok == _Pub {
		fn, err := p.funcDecl()
		if err != nil {
			return nil, err
		}
		f.Funcs = append(f.Funcs, fn)
	}
	if p.tok != _EOF {
		return nil, p.syntaxError("expected pub fn")
	}
	return f, nil
}

// prolog parses: const ifj = @import("ifj24.zig");
func (p *parser) prolog(f *File) error {
	for _, tok := range []Token{_Const, _Ifj, _Assign, _At, _Import, _Lparen} {
		if err := p.want(tok); err != nil {
			return err
		}
	}
	if p.tok != _String {
		return p.syntaxError("expected import path")
	}
	if p.lit != ImportPath {
		return diag.Errorf(diag.Syntax, p.pos, "cannot import %q, only %q is available", p.lit, ImportPath)
	}
	f.Import = p.lit
	p.next()
	if err := p.want(_Rparen); err != nil {
		return err
	}
	return p.want(_Semi)
}

// funcDecl parses: pub fn id ( params ) returnType { body }
// The signature itself was registered by pass 1.
func (p *parser) funcDecl() (*Function, error) {
	fn := &Function{}
	fn.pos = p.pos

	if err := p.want(_Pub); err != nil {
		return nil, err
	}
	if err := p.want(_Fn); err != nil {
		return nil, err
	}
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	fn.Name = name.Lit
	fn.Def = p.table.LookupFunction(name.Lit)
	if fn.Def == nil {
		return nil, diag.Internalf("function %s missing from pass 1", name.Lit)
	}

	p.table.Enter(types.FunctionScope, fn.Name)
	if err := p.params(fn); err != nil {
		return nil, err
	}

	// The return type was recorded in pass 1; skip it.
	for p.tok != _Lbrace && p.tok != _EOF {
		p.next()
	}

	fn.Body, err = p.block()
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// params parses ( id : type, ... ) and declares each parameter in the
// function scope.
func (p *parser) params(fn *Function) error {
	if err := p.want(_Lparen); err != nil {
		return err
	}
	for i := 0; p.tok != _Rparen; i++ {
		name, err := p.name()
		if err != nil {
			return err
		}
		if err := p.want(_Colon); err != nil {
			return err
		}
		p.got(_Question)
		if _, ok := dataTypeOf(p.tok); !ok {
			return p.syntaxError("expected type")
		}
		p.next()

		param := fn.Def.Params[i]
		v, err := p.table.Declare(name.Lit, param.Type, false, types.NullabilityOf(param.Nullable), name.Pos)
		if err != nil {
			return err
		}
		v.Param = true
		fn.Params = append(fn.Params, v)

		if !p.got(_Comma) {
			break
		}
	}
	return p.want(_Rparen)
}

// block parses { statement* } for a scope the caller has already entered,
// and exits that scope at the closing brace.
func (p *parser) block() (*Block, error) {
	b := &Block{}
	b.pos = p.pos

	if err := p.want(_Lbrace); err != nil {
		return nil, err
	}
	for p.tok != _Rbrace && p.tok != _EOF {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}

	end := &BlockEnd{}
	end.pos = p.pos
	if err := p.want(_Rbrace); err != nil {
		return nil, err
	}
	end.Scope = p.exitScope()
	b.End = end
	return b, nil
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement.
func (p *parser) stmt() (Stmt, error) {
	switch p.tok {
	case _Const, _Var:
		return p.declStmt()

	case _Discard:
		return p.assignStmt()

	case _Name:
		if p.peekAt(1) == _Assign {
			return p.assignStmt()
		}
		return p.callStmt()

	case _Ifj:
		return p.callStmt()

	case _If:
		return p.ifStmt()

	case _While:
		return p.whileStmt()

	case _Return:
		return p.returnStmt()
	}
	return nil, p.syntaxError("expected statement")
}

// declStmt parses: (const|var) id [: [?]type] = rhs ;
func (p *parser) declStmt() (Stmt, error) {
	s := &Declare{}
	s.pos = p.pos

	mutable := p.tok == _Var
	p.next()
	name, err := p.name()
	if err != nil {
		return nil, err
	}

	typ, nullable := types.None, types.NullUnknown
	if p.got(_Colon) {
		q := p.got(_Question)
		t, ok := dataTypeOf(p.tok)
		if !ok {
			return nil, p.syntaxError("expected type")
		}
		p.next()
		typ, nullable = t, types.NullabilityOf(q)
	}

	if err := p.want(_Assign); err != nil {
		return nil, err
	}
	if s.Value, err = p.rhs(); err != nil {
		return nil, err
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}

	// Declared after the initializer, which therefore sees outer bindings
	// of the same name.
	s.Var, err = p.table.Declare(name.Lit, typ, mutable, nullable, name.Pos)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// assignStmt parses: (id|_) = rhs ;
func (p *parser) assignStmt() (Stmt, error) {
	s := &Assign{}
	s.pos = p.pos

	if p.got(_Discard) {
		s.Var = p.table.Discard()
	} else {
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		s.Var = p.table.Find(name.Lit)
		if s.Var == nil {
			return nil, diag.Errorf(diag.UndefinedFunctionOrVariable, name.Pos, "undefined: %s", name.Lit)
		}
		s.Var.Modified = true
	}

	if err := p.want(_Assign); err != nil {
		return nil, err
	}
	var err error
	if s.Value, err = p.rhs(); err != nil {
		return nil, err
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	return s, nil
}

// callStmt parses: call ;
func (p *parser) callStmt() (Stmt, error) {
	c, err := p.call()
	if err != nil {
		return nil, err
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	return c, nil
}

// ifStmt parses: if ( cond ) [| id |] { body } [else { body }]
func (p *parser) ifStmt() (Stmt, error) {
	s := &IfElse{}
	s.pos = p.pos
	p.next() // if

	var err error
	s.Cond, s.Subject, s.Binding, err = p.condition(types.IfScope, "if")
	if err != nil {
		return nil, err
	}
	if s.Then, err = p.block(); err != nil {
		return nil, err
	}

	if p.tok == _Else {
		e := &ElseStart{}
		e.pos = p.pos
		p.next()
		p.table.Enter(types.IfScope, "else")
		if e.Body, err = p.block(); err != nil {
			return nil, err
		}
		s.Else = e
	}
	return s, nil
}

// whileStmt parses: while ( cond ) [| id |] { body }
func (p *parser) whileStmt() (Stmt, error) {
	s := &While{}
	s.pos = p.pos
	p.next() // while

	var err error
	s.Cond, s.Subject, s.Binding, err = p.condition(types.WhileScope, "while")
	if err != nil {
		return nil, err
	}
	if s.Body, err = p.block(); err != nil {
		return nil, err
	}
	return s, nil
}

// condition parses the parenthesized condition of an if or while and
// enters the body scope. The binding form "( id ) | id |" is recognized by
// looking two tokens past the '('; its bound name is declared in the body
// scope with a type the validator resolves.
func (p *parser) condition(kind types.ScopeKind, comment string) (*TruthExpression, *Variable, *types.Var, error) {
	if p.tok != _Lparen {
		return nil, nil, nil, p.syntaxError("expected (")
	}

	if p.peekAt(1) == _Name && p.peekAt(2) == _Rparen && p.peekAt(3) == _Pipe {
		p.next() // (
		name, _ := p.name()
		v := p.table.Find(name.Lit)
		if v == nil {
			return nil, nil, nil, diag.Errorf(diag.UndefinedFunctionOrVariable, name.Pos, "undefined: %s", name.Lit)
		}
		subject := NewVariable(name.Pos, v)
		p.next() // )
		p.next() // |
		bound, err := p.name()
		if err != nil {
			return nil, nil, nil, err
		}
		if err := p.want(_Pipe); err != nil {
			return nil, nil, nil, err
		}
		p.table.Enter(kind, comment)
		b, err := p.table.Declare(bound.Lit, types.None, false, types.NullNo, bound.Pos)
		if err != nil {
			return nil, nil, nil, err
		}
		return nil, subject, b, nil
	}

	cond, end, err := AnalyzeCondition(p.buf, p.buf.Index()+1, p.table)
	if err != nil {
		return nil, nil, nil, err
	}
	p.seek(end)
	if err := p.want(_Rparen); err != nil {
		return nil, nil, nil, err
	}
	p.table.Enter(kind, comment)
	return cond, nil, nil, nil
}

// returnStmt parses: return [rhs] ;
func (p *parser) returnStmt() (Stmt, error) {
	s := &Return{}
	s.pos = p.pos
	p.next() // return

	if p.tok != _Semi {
		var err error
		if s.Value, err = p.rhs(); err != nil {
			return nil, err
		}
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	return s, nil
}

// ----------------------------------------------------------------------------
// Expressions

// rhs parses a call or an arithmetic expression. The expression is left
// to the precedence analyzer, which stops before the ';'.
func (p *parser) rhs() (Expr, error) {
	if p.tok == _Ifj || (p.tok == _Name && p.peekAt(1) == _Lparen) {
		return p.call()
	}
	x, end, err := AnalyzeExpression(p.buf, p.buf.Index(), p.table)
	if err != nil {
		return nil, err
	}
	p.seek(end)
	return x, nil
}

// call parses: id ( args ) | ifj . id ( args )
func (p *parser) call() (*FunctionCall, error) {
	c := &FunctionCall{}
	c.pos = p.pos

	if p.got(_Ifj) {
		if err := p.want(_Dot); err != nil {
			return nil, err
		}
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		c.Name = types.BuiltinPrefix + name.Lit
	} else {
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		c.Name = name.Lit
	}

	if err := p.want(_Lparen); err != nil {
		return nil, err
	}
	for p.tok != _Rparen {
		arg, err := p.term()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, arg)
		if !p.got(_Comma) {
			break
		}
	}
	if err := p.want(_Rparen); err != nil {
		return nil, err
	}
	return c, nil
}

// term parses a call argument: id, literal or null.
func (p *parser) term() (Expr, error) {
	pos := p.pos
	switch p.tok {
	case _Name:
		v := p.table.Find(p.lit)
		if v == nil {
			return nil, diag.Errorf(diag.UndefinedFunctionOrVariable, pos, "undefined: %s", p.lit)
		}
		p.next()
		return NewVariable(pos, v), nil

	case _Int, _Float, _String:
		v := NewValue(pos, literalType(p.tok), p.lit)
		p.next()
		return v, nil

	case _Null:
		p.next()
		return NewNull(pos), nil
	}
	return nil, p.syntaxError("expected argument")
}
