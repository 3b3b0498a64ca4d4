// Package main is the entry point for the facet widget engine.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.trai.ch/facet/cmd/facet/commands"
	"go.trai.ch/facet/internal/adapters/logger"
	"go.trai.ch/facet/internal/adapters/telemetry"
	"go.trai.ch/facet/internal/app"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Collaborators: logging to stderr keeps command output clean
	log := logger.New()
	log.SetOutput(stderr)

	shutdownTracing := telemetry.Setup()
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	a := app.New(log)
	for _, opt := range opts {
		opt(a)
	}

	// 2. Interface - CLI
	cli := commands.New(a, log)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}
