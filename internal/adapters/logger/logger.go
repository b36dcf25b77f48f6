// Package logger implements a logging adapter using log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/mindc/internal/ui/output"
	"go.trai.ch/zerr"
)

var _ ports.Logger = (*Logger)(nil)

// ErrorEntry is one level of an error chain as printed by Logger.Error.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
	profile  termenv.Profile
	level    *slog.LevelVar
}

// New creates a new Logger writing pretty output to stderr at info level.
func New() *Logger {
	l := &Logger{
		output:  os.Stderr,
		profile: output.ColorProfile(),
		level:   &slog.LevelVar{},
	}
	l.level.Set(slog.LevelInfo)
	l.logger = slog.New(l.handler())
	return l
}

// handler builds the slog handler for the current mode. Callers hold mu.
func (l *Logger) handler() slog.Handler {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, opts)
	}
	return NewPrettyHandlerWithProfile(l.output, opts, l.profile)
}

// SetOutput updates the logger's output destination.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.handler())
}

// SetProfile sets the color profile of pretty output.
func (l *Logger) SetProfile(profile termenv.Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.profile = profile
	l.logger = slog.New(l.handler())
}

// SetJSON switches between JSON and pretty logging.
// The output destination is preserved from SetOutput calls.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.handler())
}

// SetVerbose enables debug messages.
func (l *Logger) SetVerbose(enable bool) {
	if enable {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// SetLevel sets the minimum level of printed messages.
func (l *Logger) SetLevel(level domain.LogLevel) {
	l.level.Set(slog.Level(level))
}

// Debug logs a diagnostic message with key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg, args...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain and metadata.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		args := []any{"error", err.Error()}
		for _, entry := range collectErrorEntries(err) {
			for _, k := range slices.Sorted(maps.Keys(entry.Metadata)) {
				args = append(args, k, entry.Metadata[k])
			}
		}
		l.logger.Error("operation failed", args...)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries flattens err into one entry per message. Members of a
// joined error follow each other. Metadata attached by zerr.With to a plain
// error is carried to the next message.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	pending := map[string]any{}
	collect(err, &entries, pending)
	return entries
}

func collect(err error, entries *[]ErrorEntry, pending map[string]any) {
	add := func(msg string, meta map[string]any) {
		if len(pending) > 0 {
			if meta == nil {
				meta = make(map[string]any, len(pending))
			}
			maps.Copy(meta, pending)
			clear(pending)
		}
		*entries = append(*entries, ErrorEntry{Message: msg, Metadata: meta})
	}

	for current := err; current != nil; {
		if z, ok := current.(*zerr.Error); ok {
			if z.Message() == "" {
				maps.Copy(pending, z.Metadata())
			} else {
				add(z.Message(), z.Metadata())
			}
			current = z.Unwrap()
			continue
		}
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			for _, member := range joined.Unwrap() {
				collect(member, entries, pending)
			}
			return
		}
		add(current.Error(), nil)
		return
	}
}

// formatErrorEntries renders entries as an "Error:" line followed by a
// "Caused by:" list. Metadata keys are sorted.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		prefix, indent := "    → ", "      "
		if i == 0 {
			prefix, indent = "Error: ", "       "
		} else if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}

		lines = append(lines, prefix+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, k := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
