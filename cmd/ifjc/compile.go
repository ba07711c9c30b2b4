package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/you-not-fish/ifjc/internal/cache"
	"github.com/you-not-fish/ifjc/internal/codegen"
	"github.com/you-not-fish/ifjc/internal/config"
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/sema"
	"github.com/you-not-fish/ifjc/internal/src"
	"github.com/you-not-fish/ifjc/internal/syntax"
	"github.com/you-not-fish/ifjc/internal/types"
)

// compiler runs the pipeline for one configuration.
type compiler struct {
	cfg    *config.Config
	cache  *cache.Cache // nil when disabled
	trace  *diag.Tracer
	stdin  io.Reader
	stdout io.Writer
	output string
}

// compileFile compiles the named file, "-" being standard input.
func (c *compiler) compileFile(name string) error {
	source, filename, err := c.read(name)
	if err != nil {
		return err
	}
	out, err := c.compile(filename, source)
	if err != nil {
		return err
	}
	return writeOutput(c.output, c.stdout, out)
}

func (c *compiler) read(name string) (source []byte, filename string, err error) {
	if name == "-" {
		source, err = io.ReadAll(c.stdin)
		filename = "<stdin>"
	} else {
		source, err = os.ReadFile(name)
		filename = name
	}
	if err != nil {
		return nil, "", diag.Errorf(diag.Other, src.Pos{}, "%v", err)
	}
	return source, filename, nil
}

// compile produces the configured output for source.
func (c *compiler) compile(filename string, source []byte) ([]byte, error) {
	switch c.cfg.Output.Emit {
	case "tokens":
		return c.emitTokens(filename, source)
	case "ast":
		return c.emitAST(filename, source)
	}
	return c.emitCode(filename, source)
}

// frontEnd tokenizes, parses and checks source.
func (c *compiler) frontEnd(filename string, source []byte) (*syntax.File, error) {
	done := c.trace.Phase("tokenize")
	buf, err := syntax.Tokenize(filename, bytes.NewReader(source))
	done()
	if err != nil {
		return nil, err
	}

	table := types.NewTable()
	table.StrictMutability = c.cfg.Strict()

	done = c.trace.Phase("parse")
	res, err := syntax.Parse(buf, table)
	done()
	if err != nil {
		return nil, err
	}

	done = c.trace.Phase("check")
	err = sema.Check(&sema.Config{Trace: c.trace}, res.File, table, res.Unused)
	done()
	if err != nil {
		return nil, err
	}
	return res.File, nil
}

func (c *compiler) emitCode(filename string, source []byte) ([]byte, error) {
	var key string
	if c.cache != nil {
		key = cache.Key(Version, c.cfg.Fingerprint(), source)
		code, ok, err := c.cache.Get(key)
		if err != nil {
			c.trace.Printf("cache: %v", err)
		}
		if ok {
			c.trace.Printf("cache hit %s", key[:12])
			return code, nil
		}
	}

	file, err := c.frontEnd(filename, source)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	done := c.trace.Phase("codegen")
	err = codegen.Generate(&codegen.Config{Comments: c.cfg.Output.Comments, Trace: c.trace}, &out, file)
	done()
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		// A failed store only costs the next compilation.
		if err := c.cache.Put(key, out.Bytes()); err != nil {
			c.trace.Printf("%v", err)
		}
	}
	return out.Bytes(), nil
}

// emitAST prints the checked syntax tree.
func (c *compiler) emitAST(filename string, source []byte) ([]byte, error) {
	file, err := c.frontEnd(filename, source)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	switch c.cfg.Output.ASTFormat {
	case "json":
		err = syntax.FprintJSON(&out, file)
	case "yaml":
		err = syntax.FprintYAML(&out, file)
	default:
		syntax.Fprint(&out, file)
	}
	if err != nil {
		return nil, diag.Internalf("%v", err)
	}
	return out.Bytes(), nil
}

// emitTokens prints the token stream with positions.
func (c *compiler) emitTokens(filename string, source []byte) ([]byte, error) {
	buf, err := syntax.Tokenize(filename, bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	fmt.Fprintf(&out, "%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Fprintf(&out, "%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for _, it := range buf.Items() {
		fmt.Fprintf(&out, "%-20s %-12s %s\n", it.Pos, it.Tok, formatLiteral(it.Lit))
	}
	return out.Bytes(), nil
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return ""
	}
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			if r < ' ' {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteRune('"')
	return b.String()
}
