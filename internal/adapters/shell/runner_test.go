package shell_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindc/internal/adapters/shell"
	"go.trai.ch/zerr"
)

func runners() map[string]*shell.Runner {
	return map[string]*shell.Runner{
		"pty":   shell.NewRunner(),
		"pipes": shell.NewRunner().WithoutPTY(),
	}
}

func TestRunner_Run_MultiLineOutput(t *testing.T) {
	for name, runner := range runners() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			err := runner.Run(context.Background(), []string{"sh", "-c", "echo line1; echo line2 >&2"}, t.TempDir(), &out)
			require.NoError(t, err)
			assert.Contains(t, out.String(), "line1\n")
			assert.Contains(t, out.String(), "line2\n")
			assert.NotContains(t, out.String(), "\r")
		})
	}
}

func TestRunner_Run_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.c"), nil, 0o600))

	for name, runner := range runners() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runner.Run(context.Background(), []string{"ls"}, dir, &out))
			assert.Contains(t, out.String(), "marker.c")
		})
	}
}

func TestRunner_Run_PreservesColors(t *testing.T) {
	ansiRed := "\033[31m"
	var out bytes.Buffer
	err := shell.NewRunner().Run(context.Background(),
		[]string{"sh", "-c", "printf '" + ansiRed + "error" + "\033[0m'"}, t.TempDir(), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), ansiRed+"error")
}

func TestRunner_Run_ExitCode(t *testing.T) {
	for name, runner := range runners() {
		t.Run(name, func(t *testing.T) {
			err := runner.Run(context.Background(), []string{"sh", "-c", "exit 42"}, t.TempDir(), io.Discard)
			require.Error(t, err)
			assert.ErrorContains(t, err, "process exited with error")

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, 42, zErr.Metadata()["exit_code"])
		})
	}
}

func TestRunner_Run_InvalidCommand(t *testing.T) {
	for name, runner := range runners() {
		t.Run(name, func(t *testing.T) {
			err := runner.Run(context.Background(), []string{"nonexistent-compiler-xyz123"}, t.TempDir(), io.Discard)
			require.Error(t, err)
			assert.ErrorContains(t, err, "failed to start process")
		})
	}
}

func TestRunner_Run_EmptyCommand(t *testing.T) {
	err := shell.NewRunner().Run(context.Background(), nil, "", io.Discard)
	require.ErrorIs(t, err, shell.ErrEmptyCommand)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := shell.NewRunner().Run(ctx, []string{"sleep", "10"}, t.TempDir(), io.Discard)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
