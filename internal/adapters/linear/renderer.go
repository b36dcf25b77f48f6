// Package linear provides a synchronous, line-buffered renderer for compiler output.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/mindc/internal/ui/output"
	"go.trai.ch/mindc/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer as a chronological log. Each command is
// announced with a "[n/total]" counter when it starts; its diagnostics are
// printed line by line, prefixed with the command's description when more
// than one command is running.
type Renderer struct {
	stdout  io.Writer
	stderr  io.Writer
	output  *termenv.Output
	verbose bool

	mu      sync.Mutex
	total   int
	started int
	running int
	tasks   map[string]*taskState // spanID -> task state
	buffers map[string]*bytes.Buffer
	stopped bool
}

type taskState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer. Colors follow profile.
func NewRenderer(stdout, stderr io.Writer, profile termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, profile),
		tasks:   make(map[string]*taskState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// WithVerbose makes the renderer report successful commands and their durations.
func (r *Renderer) WithVerbose(verbose bool) *Renderer {
	r.verbose = verbose
	return r
}

// Start is a no-op for linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}
	r.stopped = true

	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints how many commands will run and how many are up to date.
func (r *Renderer) OnPlanEmit(scheduled, expunged []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.total = len(scheduled)
	r.started = 0

	if len(scheduled) == 0 {
		msg := fmt.Sprintf("%s nothing to do, %d command(s) up to date", style.Check, len(expunged))
		_, _ = fmt.Fprintln(r.stderr, output.Paint(r.output, msg, style.Green))
		return
	}

	msg := fmt.Sprintf("%s %d command(s) to run, %d up to date", style.Dot, len(scheduled), len(expunged))
	_, _ = fmt.Fprintln(r.stderr, output.Paint(r.output, msg, style.Slate))
}

// OnTaskStart prints the command description with its position in the plan.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}

	r.tasks[spanID] = &taskState{
		name:      name,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)
	r.started++
	r.running++

	counter := r.output.String(fmt.Sprintf("[%d/%d]", r.started, max(r.total, r.started))).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s\n", counter, output.Paint(r.output, name, style.CommandColor(name)))
}

// OnTaskLog buffers log data and prints complete lines.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, keep it for the next chunk.
			if len(line) > 0 {
				newBuf := new(bytes.Buffer)
				newBuf.Write(line)
				r.buffers[spanID] = newBuf
			}
			break
		}

		r.printLineLocked(task.name, line)
	}
}

// OnTaskComplete flushes remaining output and prints failures. Successful
// commands are only reported in verbose mode.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)

	switch {
	case err != nil:
		symbol := output.Paint(r.output, style.Cross, style.Red)
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %v\n", symbol, task.name, duration, err)
	case r.verbose:
		symbol := output.Paint(r.output, style.Check, style.Green)
		_, _ = fmt.Fprintf(r.stderr, "%s %s %s\n", symbol, task.name,
			r.output.String(duration.String()).Faint().String())
	}

	r.running--
	delete(r.tasks, spanID)
	delete(r.buffers, spanID)
}

// flushBufferLocked flushes any remaining data in the buffer for a task.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(task.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints one line of command output. Lines are prefixed with
// the command description while other commands run concurrently.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(taskName string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	if r.running > 1 {
		prefix := r.output.String(fmt.Sprintf("[%s]", taskName)).Faint().String()
		_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix, line)
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s\n", line)
}
