package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mindc/internal/adapters/detector"
	"go.trai.ch/mindc/internal/adapters/fs"
	"go.trai.ch/mindc/internal/app"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/mindc/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	manifests *mocks.MockManifestLoader
	settings  *mocks.MockSettingsLoader
	factory   *mocks.MockCommandFactory
	logger    *mocks.MockLogger
	metrics   *mocks.MockMetricsRecorder
	provider  ComponentProvider
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		manifests: mocks.NewMockManifestLoader(ctrl),
		settings:  mocks.NewMockSettingsLoader(ctrl),
		factory:   mocks.NewMockCommandFactory(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		metrics:   mocks.NewMockMetricsRecorder(ctrl),
	}
	f.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	f.metrics.EXPECT().BuildFinished(gomock.Any()).AnyTimes()

	application := app.New(f.manifests, f.settings, f.factory, fs.NewFileSystem(), f.logger, f.metrics,
		mocks.NewMockWatcher(ctrl)).
		WithOutput(&f.stdout, &f.stderr).
		WithMode(detector.ModePlain)

	f.provider = func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: f.logger}, func() {}, nil
	}
	return f
}

// expectProject makes dir a project whose build yields cmds.
func (f *fixture) expectProject(dir string, cmds []ports.Command, cmdErr error) {
	m := &domain.Manifest{Root: dir, Path: filepath.Join(dir, domain.ManifestYAMLName), BuildDir: domain.BuildDirName}
	f.manifests.EXPECT().DiscoverRoot(dir).Return(dir, nil)
	f.settings.EXPECT().Load(dir, "").Return(&domain.Settings{}, nil)
	f.manifests.EXPECT().Load(dir).Return(m, nil)
	f.factory.EXPECT().WithOverrides(gomock.Any()).Return(f.factory)
	f.factory.EXPECT().Commands(m).Return(cmds, cmdErr)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	f := newFixture(t)

	exitCode := run(context.Background(), []string{"version"}, &f.stdout, &f.stderr, f.provider)
	assert.Equal(t, exitOK, exitCode)
	assert.Contains(t, f.stdout.String(), "mindc version")
}

// TestRun_InitializationError verifies that a failed dependency graph is an internal error.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, exitInternal, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_NoManifest(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	f.manifests.EXPECT().DiscoverRoot(dir).Return("", domain.ErrManifestNotFound)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrManifestNotFound)
	})

	exitCode := run(context.Background(), []string{"build", "-C", dir}, &f.stdout, &f.stderr, f.provider)
	assert.Equal(t, exitFailure, exitCode)
}

func TestRun_InternalError(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	f.expectProject(dir, nil, domain.Internal(errors.New("broken toolchain")))
	f.logger.EXPECT().Error(gomock.Any())

	exitCode := run(context.Background(), []string{"build", "-C", dir}, &f.stdout, &f.stderr, f.provider)
	assert.Equal(t, exitInternal, exitCode)
}

// failingCommand always fails without writing its output.
type failingCommand struct{ out string }

func (c *failingCommand) Prepare() error               { return nil }
func (c *failingCommand) InputFiles() []string         { return nil }
func (c *failingCommand) OutputFiles() []string        { return []string{c.out} }
func (c *failingCommand) ForceExec() bool              { return true }
func (c *failingCommand) Exec(_ context.Context) error { return domain.ErrCommandFailed }
func (c *failingCommand) Description() string          { return "LD : build/app" }

func TestRun_BuildFailureIsNotLoggedTwice(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	f.metrics.EXPECT().CommandFinished(gomock.Any(), gomock.Any()).AnyTimes()
	f.expectProject(dir, []ports.Command{&failingCommand{out: filepath.Join(dir, "build", "app")}}, nil)

	exitCode := run(context.Background(), []string{"build", "-C", dir}, &f.stdout, &f.stderr, f.provider)
	assert.Equal(t, exitFailure, exitCode)
	assert.Contains(t, f.stderr.String(), "✗ LD : build/app failed")
}

func TestRun_AppliesOptions(t *testing.T) {
	f := newFixture(t)
	var seen *app.App
	exitCode := run(context.Background(), []string{"version"}, &f.stdout, &f.stderr, f.provider, func(a *app.App) {
		seen = a
	})
	assert.Equal(t, exitOK, exitCode)
	assert.NotNil(t, seen)
}
