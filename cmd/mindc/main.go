// Package main is the entry point for the mindc build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindc/cmd/mindc/commands"
	"go.trai.ch/mindc/internal/app"
	"go.trai.ch/mindc/internal/core/domain"
	_ "go.trai.ch/mindc/internal/wiring"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitInternal = 2
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return exitInternal
	}
	defer cleanup()

	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		return exitCode(err, components)
	}
	return exitOK
}

// exitCode logs err unless the renderer already reported it.
func exitCode(err error, components *app.Components) int {
	switch {
	case errors.Is(err, domain.ErrBuildFailed):
		return exitFailure
	case domain.IsInternal(err):
		components.Logger.Error(err)
		return exitInternal
	default:
		components.Logger.Error(err)
		return exitFailure
	}
}
