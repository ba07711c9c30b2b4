package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/you-not-fish/ifjc/internal/cache"
	"github.com/you-not-fish/ifjc/internal/config"
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
)

// options holds the command line flags shared by all commands.
type options struct {
	configFile string
	emit       string
	astFormat  string
	output     string
	color      string
	trace      bool
	noCache    bool
}

// env is the environment one invocation runs in.
type env struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	opts           options
}

// run executes the command line args and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	root := e.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "ifjc: %v\n", usage.err)
		fmt.Fprintln(stderr, "usage: ifjc [flags] [file.zig|-]")
		return diag.Other.ExitCode()
	}
	diag.NewReporter(stderr, colorEnabled(e.opts.color)).Report(err)
	return diag.KindOf(err).ExitCode()
}

// colorEnabled resolves a --color mode. auto colors only terminals.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return !color.NoColor
}

// usageError marks a bad command line.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }

func (e *env) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ifjc [file.zig|-]",
		Short: "ifjc - IFJ24 to IFJcode24 compiler",
		Long: `ifjc compiles an IFJ24 program into IFJcode24.

The program is read from the named file, or from standard input when the
file is omitted or "-". The exit code is 0 on success and otherwise the
code of the first error:

  1  lexical error            6  bad function return
  2  syntax error             7  incompatible types
  3  undefined identifier     8  unknown type
  4  invalid parameter        9  unused variable
  5  redefinition            10  other semantic error
 99  internal error`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			c, err := e.newCompiler(cmd)
			if err != nil {
				return err
			}
			return c.compileFile(name)
		},
	}
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&e.opts.configFile, "config", "", "config file (default: $IFJC_CONFIG or ./ifjc.toml)")
	pf.StringVar(&e.opts.emit, "emit", "", "output: tokens, ast or code")
	pf.StringVar(&e.opts.astFormat, "ast-format", "", "AST format: text, json or yaml")
	pf.StringVarP(&e.opts.output, "output", "o", "", "output file (default: stdout)")
	pf.StringVar(&e.opts.color, "color", "", "colored diagnostics: auto, always or never")
	pf.BoolVar(&e.opts.trace, "trace", false, "log phase timings to stderr")
	pf.BoolVar(&e.opts.noCache, "no-cache", false, "do not read or write the output cache")

	root.AddCommand(e.versionCmd(), e.watchCmd(), e.cacheCmd())
	return root
}

func (e *env) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compiler version",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.stdout, "ifjc version %s\n", Version)
		},
	}
}

// newCompiler loads the configuration and applies the command line
// overrides.
func (e *env) newCompiler(cmd *cobra.Command) (*compiler, error) {
	cfg, err := config.Find(e.opts.configFile)
	if err != nil {
		return nil, diag.Errorf(diag.Other, src.Pos{}, "%v", err)
	}
	if err := cfg.CheckVersion(Version); err != nil {
		return nil, diag.Errorf(diag.Other, src.Pos{}, "%v", err)
	}

	flags := cmd.Flags()
	if flags.Changed("emit") {
		cfg.Output.Emit = e.opts.emit
	}
	if flags.Changed("ast-format") {
		cfg.Output.ASTFormat = e.opts.astFormat
	}
	if flags.Changed("color") {
		cfg.Output.Color = e.opts.color
	}
	e.opts.color = cfg.Output.Color
	if err := checkFlag("--emit", cfg.Output.Emit, "tokens", "ast", "code"); err != nil {
		return nil, err
	}
	if err := checkFlag("--ast-format", cfg.Output.ASTFormat, "text", "json", "yaml"); err != nil {
		return nil, err
	}
	if err := checkFlag("--color", cfg.Output.Color, "auto", "always", "never"); err != nil {
		return nil, err
	}

	c := &compiler{
		cfg:    cfg,
		stdin:  e.stdin,
		stdout: e.stdout,
		output: e.opts.output,
	}
	if e.opts.trace {
		c.trace = diag.NewTracer(e.stderr)
		if cfg.Path != "" {
			c.trace.Printf("config %s", cfg.Path)
		}
	}
	if cfg.CacheEnabled() && !e.opts.noCache {
		c.cache = cache.New(cfg.Cache.Dir, cfg.Cache.MaxAge.Duration)
	}
	return c, nil
}

// usageArgs marks argument count errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func checkFlag(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return usageError{fmt.Errorf("%s: invalid value %q (want one of %v)", name, value, allowed)}
}

// writeOutput writes data to the -o file or to stdout.
func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return diag.Errorf(diag.Other, src.Pos{}, "writing output: %v", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return diag.Errorf(diag.Other, src.Pos{}, "%v", err)
	}
	return nil
}
