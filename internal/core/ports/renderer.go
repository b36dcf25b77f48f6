package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for build output rendering.
// It decouples telemetry collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes buffered output. No events are accepted afterwards.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the pruned command graph is known.
	// scheduled: descriptions of commands that will run
	// expunged: descriptions of commands pruned as up to date
	OnPlanEmit(scheduled, expunged []string)

	// OnTaskStart is called when a command begins execution.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a command emits output.
	// data may contain partial lines or ANSI sequences.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a command finishes. err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
