// Package main is the entry point for the quick build cache.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/cmd/quick/commands"
	"go.trai.ch/quick/internal/app"
	_ "go.trai.ch/quick/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	// 2. Interface - CLI
	cli := commands.New(components)
	cli.SetArgs(os.Args[1:])

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			_, _ = os.Stderr.WriteString("interrupted\n")
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
