package ports

import (
	"time"

	"go.trai.ch/mindc/internal/core/domain"
)

// MetricsRecorder collects build metrics.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type MetricsRecorder interface {
	// CommandFinished records the terminal status of one executed command.
	CommandFinished(status domain.CommandStatus, d time.Duration)
	// BuildFinished records the outcome of a whole run.
	BuildFinished(report *domain.BuildReport)
	// WriteTextfile writes every collected metric in Prometheus text format.
	WriteTextfile(path string) error
}
