// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Command is one invocable build step: preprocess, compile, assemble or link.
//
//go:generate mockgen -source=command.go -destination=mocks/mock_command.go -package=mocks
type Command interface {
	// Prepare finalizes the file sets. The scheduler calls it exactly once,
	// before any timestamp inference. An error aborts the whole build.
	Prepare() error

	// InputFiles returns the files the command reads. Stable after Prepare.
	InputFiles() []string

	// OutputFiles returns the files the command writes. Stable after Prepare.
	OutputFiles() []string

	// ForceExec reports whether the command is always stale.
	ForceExec() bool

	// Exec performs the step synchronously. A non-nil error means the step
	// failed; the command is expected to have reported its own diagnostics.
	Exec(ctx context.Context) error

	// Description returns a diagnostic label such as "GCC: build/a.o".
	Description() string
}

type outputKey struct{}

// ContextWithOutput returns a context carrying the writer a command streams its
// process output to.
func ContextWithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// OutputFromContext returns the writer set by ContextWithOutput, or io.Discard.
func OutputFromContext(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}
	return io.Discard
}
