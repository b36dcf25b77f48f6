package ports

import (
	"context"
	"io"
)

// ProcessRunner defines the interface for spawning toolchain processes.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ProcessRunner interface {
	// Run executes argv in dir, streaming combined output to out.
	// It returns an error if the process cannot start or exits non-zero.
	Run(ctx context.Context, argv []string, dir string, out io.Writer) error
}
