package main

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/tevino/abool/v2"

	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
)

func (e *env) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch file.zig",
		Short: "Recompile a file whenever it changes",
		Long: `watch compiles the file once and again after every change until
interrupted. Errors are reported but do not stop watching.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.newCompiler(cmd)
			if err != nil {
				return err
			}
			w := &watcher{
				c:        c,
				file:     filepath.Clean(args[0]),
				reporter: diag.NewReporter(e.stderr, colorEnabled(c.cfg.Output.Color)),
				busy:     abool.NewBool(false),
				pending:  abool.NewBool(false),
			}
			return w.run(cmd)
		},
	}
}

// watcher rebuilds one file on change. At most one build runs at a time;
// changes during a build cause exactly one more build.
type watcher struct {
	c        *compiler
	file     string
	reporter *diag.Reporter

	busy    *abool.AtomicBool
	pending *abool.AtomicBool
	builds  chan struct{} // receives after every build, for tests
}

func (w *watcher) run(cmd *cobra.Command) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return diag.Errorf(diag.Other, src.Pos{}, "watch: %v", err)
	}
	defer fw.Close()

	// Editors often replace the file, so watch its directory.
	if err := fw.Add(filepath.Dir(w.file)); err != nil {
		return diag.Errorf(diag.Other, src.Pos{}, "watch: %v", err)
	}

	w.trigger()
	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.file {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.trigger()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.reporter.Warn("watch: %v", err)
		}
	}
}

// trigger starts a build unless one is running, in which case it asks
// the running build to go again.
func (w *watcher) trigger() {
	if !w.busy.SetToIf(false, true) {
		w.pending.Set()
		return
	}
	go func() {
		for {
			w.pending.UnSet()
			w.build()
			w.busy.UnSet()
			if !w.pending.IsSet() || !w.busy.SetToIf(false, true) {
				return
			}
		}
	}()
}

func (w *watcher) build() {
	w.c.trace.Printf("build %s", w.file)
	if err := w.c.compileFile(w.file); err != nil {
		w.reporter.Report(err)
	}
	if w.builds != nil {
		w.builds <- struct{}{}
	}
}
