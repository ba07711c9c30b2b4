// Package main implements the ifjc compiler entry point.
package main

import (
	"context"
	"os"
	"os/signal"
)

// Version information
const Version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
