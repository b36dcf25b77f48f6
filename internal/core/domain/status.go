package domain

import "strings"

// CommandStatus represents the lifecycle state of a command during one build run.
type CommandStatus string

const (
	// StatusPending indicates the command waits for at least one producer.
	StatusPending CommandStatus = "pending"
	// StatusReady indicates every producer finished and the command is queued.
	StatusReady CommandStatus = "ready"
	// StatusRunning indicates the command is executing.
	StatusRunning CommandStatus = "running"
	// StatusDone indicates the command executed successfully.
	StatusDone CommandStatus = "done"
	// StatusFailed indicates the command failed, or one of its producers did.
	StatusFailed CommandStatus = "failed"
	// StatusExpunged indicates the command was up to date and pruned before scheduling.
	StatusExpunged CommandStatus = "expunged"
)

// IsTerminal checks if a status is a terminal state (Done, Failed, Expunged).
func (s CommandStatus) IsTerminal() bool {
	switch s {
	case StatusDone, StatusFailed, StatusExpunged:
		return true
	default:
		return false
	}
}

// IsSuccess reports whether the status counts towards a successful build.
func (s CommandStatus) IsSuccess() bool {
	return s == StatusDone || s == StatusExpunged
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLogLevel converts a settings value to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}
