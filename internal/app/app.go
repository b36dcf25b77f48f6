// Package app implements the application layer for mindc.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mindc/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/mindc/internal/engine/scheduler"
	"go.trai.ch/mindc/internal/ui/output"
	"go.trai.ch/mindc/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TracerName is the instrumentation name of every span mindc emits.
const TracerName = "mindc"

// App represents the main application logic.
type App struct {
	manifests ports.ManifestLoader
	settings  ports.SettingsLoader
	factory   ports.CommandFactory
	fs        ports.FileSystem
	logger    ports.Logger
	metrics   ports.MetricsRecorder
	watcher   ports.Watcher
	mode      detector.OutputMode
	stdout    io.Writer
	stderr    io.Writer
}

// New creates a new App instance writing to the process's standard streams.
func New(
	manifests ports.ManifestLoader,
	settings ports.SettingsLoader,
	factory ports.CommandFactory,
	fs ports.FileSystem,
	log ports.Logger,
	metrics ports.MetricsRecorder,
	watcher ports.Watcher,
) *App {
	return &App{
		manifests: manifests,
		settings:  settings,
		factory:   factory,
		fs:        fs,
		logger:    log,
		metrics:   metrics,
		watcher:   watcher,
		mode:      detector.ModeAuto,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// WithOutput redirects command output and progress lines.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithMode sets the detected output mode. --color resolves against it.
func (a *App) WithMode(mode detector.OutputMode) *App {
	a.mode = mode
	return a
}

// Options are the command line settings of one invocation.
// Zero values mean "not set on the command line".
type Options struct {
	// Dir is the directory the manifest is searched from. Defaults to ".".
	Dir         string
	Jobs        int
	FailFast    bool
	Force       bool
	Verbose     bool
	JSON        bool
	MetricsFile string
	ConfigFile  string
	// Color is "auto", "always" or "never".
	Color string
}

// session is the resolved state shared by every command of one invocation.
type session struct {
	root        string
	manifest    *domain.Manifest
	settings    *domain.Settings
	build       domain.BuildOptions
	metricsFile string
}

// configurableLogger is implemented by loggers whose format and level can
// follow settings.
type configurableLogger interface {
	SetJSON(enable bool)
	SetLevel(level domain.LogLevel)
	SetProfile(profile termenv.Profile)
}

// prepare locates the project, merges flags over settings over defaults and
// loads the manifest.
func (a *App) prepare(opts Options) (*session, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve working directory")
	}

	root, err := a.manifests.DiscoverRoot(dir)
	if err != nil {
		return nil, err
	}

	configFile := opts.ConfigFile
	if configFile != "" {
		if configFile, err = filepath.Abs(configFile); err != nil {
			return nil, zerr.Wrap(err, "failed to resolve settings path")
		}
	}
	settings, err := a.settings.Load(root, configFile)
	if err != nil {
		return nil, err
	}
	a.configureLogger(opts, settings)

	manifest, err := a.manifests.Load(root)
	if err != nil {
		return nil, err
	}

	s := &session{
		root:        root,
		manifest:    manifest,
		settings:    settings,
		metricsFile: settings.MetricsFile,
		build: domain.BuildOptions{
			Jobs:     settings.Jobs,
			FailFast: opts.FailFast || settings.FailFast,
			Force:    opts.Force,
		},
	}
	if opts.Jobs > 0 {
		s.build.Jobs = opts.Jobs
	}
	if opts.MetricsFile != "" {
		s.metricsFile = opts.MetricsFile
	}
	s.build = s.build.Normalize()
	return s, nil
}

func (a *App) configureLogger(opts Options, settings *domain.Settings) {
	l, ok := a.logger.(configurableLogger)
	if !ok {
		return
	}
	l.SetProfile(detector.ResolveMode(a.mode, opts.Color).Profile())
	l.SetJSON(opts.JSON || settings.LogFormat == "json")
	switch {
	case opts.Verbose:
		l.SetLevel(domain.LogLevelDebug)
	case settings.LogLevel != "":
		l.SetLevel(domain.ParseLogLevel(settings.LogLevel))
	}
}

func (a *App) commands(s *session) ([]ports.Command, error) {
	return a.factory.WithOverrides(s.settings.Toolchain).Commands(s.manifest)
}

// Build runs one incremental build of every target in the manifest.
// A build in which any command failed returns domain.ErrBuildFailed.
func (a *App) Build(ctx context.Context, opts Options) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}
	return a.build(ctx, s, opts)
}

//nolint:cyclop // orchestration function
func (a *App) build(ctx context.Context, s *session, opts Options) error {
	commands, err := a.commands(s)
	if err != nil {
		return err
	}

	profile := detector.ResolveMode(a.mode, opts.Color).Profile()
	renderer := linear.NewRenderer(a.stdout, a.stderr, profile).WithVerbose(opts.Verbose)

	// Command spans reach the renderer through the bridge.
	tp := setupOTel(telemetry.NewBridge(renderer))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer(TracerName).WithRenderer(renderer)

	sched := scheduler.NewScheduler(a.fs, tracer, a.logger, a.metrics)

	var report *domain.BuildReport
	g, gctx := errgroup.WithContext(ctx)

	// Renderer Routine
	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	// Scheduler Routine
	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		runCtx, span := tracer.Start(gctx, "build",
			ports.WithAttribute("build.manifest", s.manifest.Path),
			ports.WithAttribute("build.jobs", s.build.Jobs),
		)
		defer span.End()

		var err error
		report, err = sched.Run(runCtx, commands, s.build)
		if err != nil {
			span.RecordError(err)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if s.metricsFile != "" {
		if err := a.metrics.WriteTextfile(s.metricsFile); err != nil {
			a.logger.Error(err)
		}
	}

	return a.summarize(report)
}

func (a *App) summarize(report *domain.BuildReport) error {
	for _, desc := range report.Cascaded {
		a.logger.Warn(fmt.Sprintf("%s skipped: a prerequisite failed", desc))
	}
	if n := len(report.Abandoned); n > 0 {
		a.logger.Warn(fmt.Sprintf("%d command(s) not started after the first failure", n))
	}
	if report.OK() {
		a.logger.Debug("build finished",
			"run_id", report.RunID,
			"executed", len(report.Executed),
			"duration", report.Duration,
		)
		return nil
	}
	return zerr.With(
		zerr.Wrap(domain.ErrBuildFailed, fmt.Sprintf("%d command(s) failed", len(report.Failed))),
		"run_id", report.RunID,
	)
}

// Plan prints, for every command, whether a build would run it and why.
// Nothing is executed.
func (a *App) Plan(_ context.Context, opts Options) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}
	commands, err := a.commands(s)
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(a.fs, telemetry.NewNoOpTracer(), a.logger, a.metrics)
	planned, err := sched.Plan(commands, s.build.Force)
	if err != nil {
		return err
	}

	out := output.NewWithProfile(a.stdout, detector.ResolveMode(a.mode, opts.Color).Profile())
	for _, p := range planned {
		status := output.Paint(out, "skip", style.Slate)
		if p.Run {
			status = output.Paint(out, "run ", style.Yellow)
		}
		line := fmt.Sprintf("%s %s (%s", status, p.Description, p.Reason)
		if p.Reason == scheduler.ReasonInputNewer && p.NewestInput != "" {
			line += ": " + relativeTo(s.root, p.NewestInput)
		}
		if _, err := fmt.Fprintln(a.stdout, line+")"); err != nil {
			return zerr.Wrap(err, "failed to write plan")
		}
	}
	return nil
}

// Clean removes the build directory and the signature store.
func (a *App) Clean(_ context.Context, opts Options) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(errors.Join(domain.ErrCleanFailed, err), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(absUnder(s.root, s.manifest.BuildDir), "build directory")
	remove(filepath.Join(s.root, domain.DefaultStorePath()), "signature store")

	return errs
}

// setupOTel registers a tracer provider that forwards spans to the bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}

func absUnder(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
