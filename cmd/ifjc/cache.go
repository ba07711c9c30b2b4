package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/ifjc/internal/cache"
	"github.com/you-not-fish/ifjc/internal/config"
	"github.com/you-not-fish/ifjc/internal/diag"
	"github.com/you-not-fish/ifjc/internal/src"
)

func (e *env) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the output cache",
		Args:  usageArgs(cobra.NoArgs),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove cache entries older than cache.max_age",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Find(e.opts.configFile)
			if err != nil {
				return diag.Errorf(diag.Other, src.Pos{}, "%v", err)
			}
			c := cache.New(cfg.Cache.Dir, cfg.Cache.MaxAge.Duration)
			n, err := c.Clean()
			if err != nil {
				return diag.Errorf(diag.Other, src.Pos{}, "cache: %v", err)
			}
			fmt.Fprintf(e.stdout, "removed %d expired entries from %s\n", n, c.Dir())
			return nil
		},
	})
	return cmd
}
