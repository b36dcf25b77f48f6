// Package shell runs toolchain processes, under a pseudo-terminal when one is available.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProcessRunner = (*Runner)(nil)

// ErrEmptyCommand is returned when Run is called without an executable.
var ErrEmptyCommand = zerr.New("empty command line")

// Runner implements ports.ProcessRunner using os/exec and pty.
type Runner struct {
	disablePTY bool
}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// WithoutPTY makes the runner use plain pipes.
func (r *Runner) WithoutPTY() *Runner {
	return &Runner{disablePTY: true}
}

// Run starts argv in dir and copies its combined output to out until it exits.
// A non-zero exit is returned as an error carrying the exit code.
func (r *Runner) Run(ctx context.Context, argv []string, dir string, out io.Writer) error {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // argv is built by the toolchain
	cmd.Dir = dir
	cmd.Env = os.Environ()

	proc, err := r.start(cmd, out)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start process"), "executable", argv[0])
	}

	if err := proc.wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.Wrap(err, "process exited with error"), "exit_code", exitCode)
	}
	return nil
}

func (r *Runner) start(cmd *exec.Cmd, out io.Writer) (*process, error) {
	if !r.disablePTY {
		ptmx, err := pty.Start(cmd)
		if err == nil {
			ioDone := make(chan struct{})
			go func() {
				defer close(ioDone)
				defer func() { _ = ptmx.Close() }()
				w := &crlfWriter{w: out}
				// The read ends with EIO once the child closes the terminal.
				_, _ = io.Copy(w, ptmx)
				_ = w.Flush()
			}()
			return &process{cmd: cmd, ioDone: ioDone}, nil
		}
		if !errors.Is(err, pty.ErrUnsupported) && !errors.Is(err, os.ErrNotExist) && !errors.Is(err, os.ErrPermission) {
			return nil, err
		}
	}

	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &process{cmd: cmd}, nil
}

type process struct {
	cmd    *exec.Cmd
	ioDone <-chan struct{}
}

func (p *process) wait() error {
	err := p.cmd.Wait()
	if p.ioDone != nil {
		<-p.ioDone
	}
	return err
}

// crlfWriter turns the "\r\n" line endings of a terminal back into "\n".
type crlfWriter struct {
	w       io.Writer
	pending bool
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+1)
	if c.pending {
		c.pending = false
		if len(p) == 0 || p[0] != '\n' {
			buf = append(buf, '\r')
		}
	}
	data := p
	if bytes.HasSuffix(data, []byte{'\r'}) {
		c.pending = true
		data = data[:len(data)-1]
	}
	buf = append(buf, bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))...)
	if _, err := c.w.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush writes a carriage return held back at the end of the stream.
func (c *crlfWriter) Flush() error {
	if !c.pending {
		return nil
	}
	c.pending = false
	_, err := c.w.Write([]byte{'\r'})
	return err
}
