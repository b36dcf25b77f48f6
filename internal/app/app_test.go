package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindc/internal/adapters/detector"
	"go.trai.ch/mindc/internal/adapters/fs"
	"go.trai.ch/mindc/internal/adapters/logger"
	"go.trai.ch/mindc/internal/app"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/mindc/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeCommand writes its outputs when executed.
type fakeCommand struct {
	desc    string
	inputs  []string
	outputs []string
	output  string
	fail    bool
	runs    int
}

func (c *fakeCommand) Prepare() error        { return nil }
func (c *fakeCommand) InputFiles() []string  { return c.inputs }
func (c *fakeCommand) OutputFiles() []string { return c.outputs }
func (c *fakeCommand) ForceExec() bool       { return false }
func (c *fakeCommand) Description() string   { return c.desc }

func (c *fakeCommand) Exec(ctx context.Context) error {
	c.runs++
	if c.output != "" {
		_, _ = io.WriteString(ports.OutputFromContext(ctx), c.output)
	}
	if c.fail {
		return domain.ErrCommandFailed
	}
	for _, out := range c.outputs {
		if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(out, nil, 0o600); err != nil {
			return err
		}
	}
	return nil
}

type harness struct {
	root      string
	manifest  *domain.Manifest
	manifests *mocks.MockManifestLoader
	settings  *mocks.MockSettingsLoader
	factory   *mocks.MockCommandFactory
	logger    *mocks.MockLogger
	metrics   *mocks.MockMetricsRecorder
	watcher   *mocks.MockWatcher
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	app       *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	h := &harness{
		root: root,
		manifest: &domain.Manifest{
			Root:     root,
			Path:     filepath.Join(root, domain.ManifestYAMLName),
			BuildDir: domain.BuildDirName,
		},
		manifests: mocks.NewMockManifestLoader(ctrl),
		settings:  mocks.NewMockSettingsLoader(ctrl),
		factory:   mocks.NewMockCommandFactory(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		metrics:   mocks.NewMockMetricsRecorder(ctrl),
		watcher:   mocks.NewMockWatcher(ctrl),
	}
	h.app = app.New(h.manifests, h.settings, h.factory, fs.NewFileSystem(), h.logger, h.metrics, h.watcher).
		WithOutput(&h.stdout, &h.stderr).
		WithMode(detector.ModePlain)

	h.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	h.metrics.EXPECT().CommandFinished(gomock.Any(), gomock.Any()).AnyTimes()
	h.metrics.EXPECT().BuildFinished(gomock.Any()).AnyTimes()
	return h
}

// expectLoad sets up project discovery with the given settings.
func (h *harness) expectLoad(settings *domain.Settings) {
	if settings == nil {
		settings = &domain.Settings{}
	}
	h.manifests.EXPECT().DiscoverRoot(h.root).Return(h.root, nil)
	h.settings.EXPECT().Load(h.root, "").Return(settings, nil)
	h.manifests.EXPECT().Load(h.root).Return(h.manifest, nil)
}

func (h *harness) expectCommands(cmds ...ports.Command) {
	h.factory.EXPECT().WithOverrides(gomock.Any()).Return(h.factory)
	h.factory.EXPECT().Commands(h.manifest).Return(cmds, nil)
}

func (h *harness) path(rel string) string {
	return filepath.Join(h.root, filepath.FromSlash(rel))
}

// touch creates rel with the given age.
func (h *harness) touch(t *testing.T, rel string, age time.Duration) string {
	t.Helper()
	path := h.path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestApp_Build(t *testing.T) {
	h := newHarness(t)
	src := h.touch(t, "main.c", time.Hour)

	cc := &fakeCommand{
		desc:    "GCC: build/main.o",
		inputs:  []string{src},
		outputs: []string{h.path("build/main.o")},
		output:  "main.c:1:1: warning: empty translation unit\n",
	}
	h.expectLoad(nil)
	h.expectCommands(cc)

	require.NoError(t, h.app.Build(context.Background(), app.Options{Dir: h.root}))

	assert.Equal(t, 1, cc.runs)
	assert.FileExists(t, h.path("build/main.o"))
	assert.Equal(t, "main.c:1:1: warning: empty translation unit\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "● 1 command(s) to run, 0 up to date\n")
	assert.Contains(t, h.stderr.String(), "[1/1] GCC: build/main.o\n")
}

func TestApp_Build_UpToDate(t *testing.T) {
	h := newHarness(t)
	src := h.touch(t, "main.c", time.Hour)
	obj := h.touch(t, "build/main.o", time.Minute)

	cc := &fakeCommand{desc: "GCC: build/main.o", inputs: []string{src}, outputs: []string{obj}}
	h.expectLoad(nil)
	h.expectCommands(cc)

	require.NoError(t, h.app.Build(context.Background(), app.Options{Dir: h.root}))

	assert.Zero(t, cc.runs)
	assert.Equal(t, "✓ nothing to do, 1 command(s) up to date\n", h.stderr.String())
}

func TestApp_Build_Force(t *testing.T) {
	h := newHarness(t)
	src := h.touch(t, "main.c", time.Hour)
	obj := h.touch(t, "build/main.o", time.Minute)

	cc := &fakeCommand{desc: "GCC: build/main.o", inputs: []string{src}, outputs: []string{obj}}
	h.expectLoad(nil)
	h.expectCommands(cc)

	require.NoError(t, h.app.Build(context.Background(), app.Options{Dir: h.root, Force: true}))
	assert.Equal(t, 1, cc.runs)
}

func TestApp_Build_Failure(t *testing.T) {
	h := newHarness(t)
	src := h.touch(t, "main.c", time.Hour)
	obj := h.path("build/main.o")

	cc := &fakeCommand{
		desc:    "GCC: build/main.o",
		inputs:  []string{src},
		outputs: []string{obj},
		output:  "main.c:1:1: error: expected ';'\n",
		fail:    true,
	}
	ld := &fakeCommand{desc: "LD : build/app", inputs: []string{obj}, outputs: []string{h.path("build/app")}}
	h.expectLoad(nil)
	h.expectCommands(cc, ld)
	h.logger.EXPECT().Warn("LD : build/app skipped: a prerequisite failed")

	err := h.app.Build(context.Background(), app.Options{Dir: h.root})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.False(t, domain.IsInternal(err))

	assert.Zero(t, ld.runs)
	assert.Equal(t, "main.c:1:1: error: expected ';'\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "✗ GCC: build/main.o failed after")
}

func TestApp_Build_InternalError(t *testing.T) {
	h := newHarness(t)
	a := &fakeCommand{desc: "GCC: build/a.o", outputs: []string{h.path("build/a.o")}}
	b := &fakeCommand{desc: "GCC: build/b.o", outputs: []string{h.path("build/a.o")}}
	h.expectLoad(nil)
	h.expectCommands(a, b)

	err := h.app.Build(context.Background(), app.Options{Dir: h.root})
	require.Error(t, err)
	assert.True(t, domain.IsInternal(err))
	assert.ErrorIs(t, err, domain.ErrDuplicateOutput)
}

func TestApp_Build_SettingsAndFlags(t *testing.T) {
	h := newHarness(t)
	src := h.touch(t, "main.c", time.Hour)
	cc := &fakeCommand{desc: "GCC: build/main.o", inputs: []string{src}, outputs: []string{h.path("build/main.o")}}

	settings := &domain.Settings{
		Jobs:        4,
		MetricsFile: filepath.Join(h.root, "settings.prom"),
		Toolchain:   domain.ToolSettings{CC: "clang"},
	}
	h.expectLoad(settings)
	h.factory.EXPECT().WithOverrides(domain.ToolSettings{CC: "clang"}).Return(h.factory)
	h.factory.EXPECT().Commands(h.manifest).Return([]ports.Command{cc}, nil)

	flagMetrics := filepath.Join(h.root, "flag.prom")
	h.metrics.EXPECT().WriteTextfile(flagMetrics).Return(nil)

	require.NoError(t, h.app.Build(context.Background(), app.Options{
		Dir:         h.root,
		Jobs:        2,
		MetricsFile: flagMetrics,
	}))
}

func TestApp_Build_MetricsWriteFailureIsLogged(t *testing.T) {
	h := newHarness(t)
	h.expectLoad(&domain.Settings{MetricsFile: "/nonexistent/dir/mindc.prom"})
	h.expectCommands()

	writeErr := errors.New("permission denied")
	h.metrics.EXPECT().WriteTextfile("/nonexistent/dir/mindc.prom").Return(writeErr)
	h.logger.EXPECT().Error(writeErr)

	assert.NoError(t, h.app.Build(context.Background(), app.Options{Dir: h.root}))
}

func TestApp_Build_ConfiguresLogger(t *testing.T) {
	h := newHarness(t)

	var logs bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&logs)
	a := app.New(h.manifests, h.settings, h.factory, fs.NewFileSystem(), lg, h.metrics, h.watcher).
		WithOutput(&h.stdout, &h.stderr).
		WithMode(detector.ModePlain)

	h.expectLoad(&domain.Settings{LogFormat: "json"})
	h.expectCommands()

	require.NoError(t, a.Build(context.Background(), app.Options{Dir: h.root, Verbose: true}))
	assert.Contains(t, logs.String(), `"msg":"build finished"`)
}

func TestApp_Build_DiscoveryFailure(t *testing.T) {
	h := newHarness(t)
	h.manifests.EXPECT().DiscoverRoot(h.root).Return("", domain.ErrManifestNotFound)

	err := h.app.Build(context.Background(), app.Options{Dir: h.root})
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestApp_Plan(t *testing.T) {
	h := newHarness(t)
	a := h.touch(t, "a.c", time.Hour)
	aObj := h.touch(t, "build/a.o", 30*time.Minute)
	bObj := h.touch(t, "build/b.o", 30*time.Minute)
	b := h.touch(t, "b.c", time.Minute)

	ccA := &fakeCommand{desc: "GCC: build/a.o", inputs: []string{a}, outputs: []string{aObj}}
	ccB := &fakeCommand{desc: "GCC: build/b.o", inputs: []string{b}, outputs: []string{bObj}}
	h.expectLoad(nil)
	h.expectCommands(ccA, ccB)

	require.NoError(t, h.app.Plan(context.Background(), app.Options{Dir: h.root}))

	assert.Zero(t, ccA.runs+ccB.runs)
	assert.Contains(t, h.stdout.String(), "skip GCC: build/a.o (up to date)\n")
	assert.Contains(t, h.stdout.String(), "run  GCC: build/b.o (input newer: b.c)\n")
	assert.Empty(t, h.stderr.String())
}

func TestApp_Clean(t *testing.T) {
	h := newHarness(t)
	h.touch(t, "build/obj/app/main.o", 0)
	h.touch(t, ".mind/store/ab/abcdef.json", 0)
	h.touch(t, ".mind/config.toml", 0)
	h.expectLoad(nil)

	h.logger.EXPECT().Info("removing build directory...")
	h.logger.EXPECT().Info("removed build directory")
	h.logger.EXPECT().Info("removing signature store...")
	h.logger.EXPECT().Info("removed signature store")

	require.NoError(t, h.app.Clean(context.Background(), app.Options{Dir: h.root}))

	assert.NoDirExists(t, h.path("build"))
	assert.NoDirExists(t, h.path(".mind/store"))
	assert.FileExists(t, h.path(".mind/config.toml"))
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		changed := h.path("main.c")

		h.manifests.EXPECT().DiscoverRoot(h.root).Return(h.root, nil)
		h.settings.EXPECT().Load(h.root, "").Return(&domain.Settings{}, nil)
		h.manifests.EXPECT().Load(h.root).Return(h.manifest, nil).Times(2)
		h.factory.EXPECT().WithOverrides(gomock.Any()).Return(h.factory).Times(2)
		h.factory.EXPECT().Commands(h.manifest).Return(nil, nil).Times(2)

		h.watcher.EXPECT().Start(gomock.Any(), h.root, []string{".mind", "build"}).Return(nil)
		h.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			yield(ports.WatchEvent{Path: changed, Operation: ports.OpWrite})
		}))
		h.watcher.EXPECT().Stop().Return(nil)
		h.logger.EXPECT().Info("watching for changes, press Ctrl-C to stop")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- h.app.Watch(ctx, app.Options{Dir: h.root})
		}()

		// Past the debounce window: the change triggers the second build.
		time.Sleep(time.Second)
		synctest.Wait()

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, 2, bytes.Count(h.stderr.Bytes(), []byte("nothing to do")))
	})
}

func TestApp_Watch_StartFailure(t *testing.T) {
	h := newHarness(t)
	h.expectLoad(nil)
	h.watcher.EXPECT().Start(gomock.Any(), h.root, gomock.Any()).Return(errors.New("too many open files"))

	err := h.app.Watch(context.Background(), app.Options{Dir: h.root})
	assert.ErrorIs(t, err, domain.ErrWatcherFailed)
}
