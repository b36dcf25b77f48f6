package app

import (
	"context"
	"errors"
	"path/filepath"

	"go.trai.ch/mindc/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/zerr"
)

// Watch builds once, then rebuilds whenever a file below the manifest root
// changes, until ctx is done. Failed builds do not end the loop.
func (a *App) Watch(ctx context.Context, opts Options) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}

	skip := []string{domain.DefaultMindPath(), filepath.ToSlash(s.manifest.BuildDir)}
	if err := a.watcher.Start(ctx, s.root, skip); err != nil {
		return zerr.With(errors.Join(domain.ErrWatcherFailed, err), "root", s.root)
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	// A pending trigger already covers later changes: every build re-reads
	// timestamps.
	triggers := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case triggers <- paths:
		default:
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.rebuild(ctx, s, opts)
	a.logger.Info("watching for changes, press Ctrl-C to stop")

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-triggers:
			a.logger.Debug("change detected", "paths", len(paths), "first", relativeTo(s.root, paths[0]))
			manifest, err := a.manifests.Load(s.root)
			if err != nil {
				a.logger.Error(err)
				continue
			}
			s.manifest = manifest
			a.rebuild(ctx, s, opts)
		}
	}
}

// rebuild runs one build of the watch loop. Failed commands were already
// reported by the renderer; other errors are logged.
func (a *App) rebuild(ctx context.Context, s *session, opts Options) {
	err := a.build(ctx, s, opts)
	switch {
	case err == nil, errors.Is(err, domain.ErrBuildFailed):
	case ctx.Err() != nil:
	default:
		a.logger.Error(err)
	}
}
