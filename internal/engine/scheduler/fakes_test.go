package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/mindc/internal/core/ports/mocks"
	"go.trai.ch/mindc/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// fakeFS is an in-memory file system whose clock advances one second per write.
type fakeFS struct {
	mu    sync.Mutex
	clock time.Time
	files map[string]time.Time
}

func newFakeFS(paths ...string) *fakeFS {
	f := &fakeFS{
		clock: time.Unix(1_000_000, 0),
		files: make(map[string]time.Time),
	}
	for _, p := range paths {
		f.touch(p)
	}
	return f
}

func (f *fakeFS) ModTime(path string) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.files[path]
	return t, ok, nil
}

func (f *fakeFS) touch(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		f.clock = f.clock.Add(time.Second)
		f.files[p] = f.clock
	}
}

func (f *fakeFS) remove(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		delete(f.files, p)
	}
}

// execLog records executed commands in completion order.
type execLog struct {
	mu    sync.Mutex
	order []string
}

func (l *execLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, name)
}

func (l *execLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

func (l *execLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = nil
}

// fakeCommand writes its outputs to the fake file system when executed.
type fakeCommand struct {
	name       string
	in, out    []string
	forced     bool
	fail       bool
	panics     bool
	delay      time.Duration
	prepareErr error
	onExec     func()
	afterExec  func()

	fs  *fakeFS
	log *execLog
}

var _ ports.Command = (*fakeCommand)(nil)

func (c *fakeCommand) Prepare() error        { return c.prepareErr }
func (c *fakeCommand) InputFiles() []string  { return c.in }
func (c *fakeCommand) OutputFiles() []string { return c.out }
func (c *fakeCommand) ForceExec() bool       { return c.forced }
func (c *fakeCommand) Description() string   { return c.name }

func (c *fakeCommand) Exec(_ context.Context) error {
	if c.onExec != nil {
		c.onExec()
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if c.afterExec != nil {
		defer c.afterExec()
	}
	if c.panics {
		panic("boom")
	}
	c.log.add(c.name)
	if c.fail {
		return zerr.With(zerr.Wrap(domain.ErrCommandFailed, "fake command failed"), "command", c.name)
	}
	c.fs.touch(c.out...)
	return nil
}

// newSchedulerForTest creates a scheduler with permissive telemetry, logging and metrics mocks.
func newSchedulerForTest(t *testing.T, fs ports.FileSystem) *scheduler.Scheduler {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) { return len(p), nil }).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	// Start has variadic signature: Start(ctx, name, ...opts).
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	recorder := mocks.NewMockMetricsRecorder(ctrl)
	recorder.EXPECT().CommandFinished(gomock.Any(), gomock.Any()).AnyTimes()
	recorder.EXPECT().BuildFinished(gomock.Any()).AnyTimes()

	return scheduler.NewScheduler(fs, tracer, logger, recorder)
}

// pipeline returns the preprocess, compile and link commands of a single C file.
func pipeline(fs *fakeFS, log *execLog) (pp, cc, ln *fakeCommand) {
	pp = &fakeCommand{name: "Pp", in: []string{"a.c"}, out: []string{"a.i"}, fs: fs, log: log}
	cc = &fakeCommand{name: "Cc", in: []string{"a.i"}, out: []string{"a.o"}, fs: fs, log: log}
	ln = &fakeCommand{name: "Ln", in: []string{"a.o"}, out: []string{"a.exe"}, fs: fs, log: log}
	return pp, cc, ln
}

func asCommands(cmds ...*fakeCommand) []ports.Command {
	out := make([]ports.Command, len(cmds))
	for i, c := range cmds {
		out[i] = c
	}
	return out
}
