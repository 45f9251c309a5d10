// Package main provides the corpusctl binary entry point.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/refcorpus/corpusctl/internal/adapters/driving/cli"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, Version); err != nil {
		stop()
		os.Exit(1)
	}
}
