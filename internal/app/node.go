package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindc/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/settings"  //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/toolchain" //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/mindc/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			settings.NodeID,
			toolchain.NodeID,
			fs.FileSystemNodeID,
			logger.NodeID,
			metrics.NodeID,
			watcher.NodeID,
			detector.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	manifests, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}

	settingsLoader, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[ports.CommandFactory](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[ports.MetricsRecorder](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	mode, err := graft.Dep[detector.OutputMode](ctx)
	if err != nil {
		return nil, err
	}

	return New(manifests, settingsLoader, factory, fsys, log, recorder, w).WithMode(mode), nil
}

