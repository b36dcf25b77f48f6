package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/mindc/internal/adapters/logger"
)

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		minLevel   slog.Level
		level      slog.Level
		msg        string
		goldenName string
	}{
		{
			name:       "info level",
			minLevel:   slog.LevelInfo,
			level:      slog.LevelInfo,
			msg:        "information message",
			goldenName: "handler_info",
		},
		{
			name:       "warn level",
			minLevel:   slog.LevelInfo,
			level:      slog.LevelWarn,
			msg:        "warning message",
			goldenName: "handler_warn",
		},
		{
			name:       "error level",
			minLevel:   slog.LevelInfo,
			level:      slog.LevelError,
			msg:        "error message",
			goldenName: "handler_error",
		},
		{
			name:       "debug level enabled",
			minLevel:   slog.LevelDebug,
			level:      slog.LevelDebug,
			msg:        "debug message",
			goldenName: "handler_debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: tt.minLevel})
			lg := slog.New(handler)

			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_DebugFiltered(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))

	lg.Debug("debug message")

	assert.Empty(t, buf.String())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	lg := slog.New(handler).With("command", "GCC: build/obj/app/main.o")

	lg.Debug("forcing command", "reason", "no dependency file", "jobs", 4)

	g := goldie.New(t)
	g.Assert(t, "handler_attrs", buf.Bytes())
}

func TestPrettyHandler_Group(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil).WithGroup("build"))

	lg.Info("done", "commands", 3)

	g := goldie.New(t)
	g.Assert(t, "handler_group", buf.Bytes())
}
