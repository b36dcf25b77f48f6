// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mindc/internal/adapters/cas"
	_ "go.trai.ch/mindc/internal/adapters/config"
	_ "go.trai.ch/mindc/internal/adapters/detector"
	_ "go.trai.ch/mindc/internal/adapters/fs"
	_ "go.trai.ch/mindc/internal/adapters/logger"
	_ "go.trai.ch/mindc/internal/adapters/metrics"
	_ "go.trai.ch/mindc/internal/adapters/settings"
	_ "go.trai.ch/mindc/internal/adapters/shell"
	_ "go.trai.ch/mindc/internal/adapters/toolchain"
	_ "go.trai.ch/mindc/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/mindc/internal/app"
)
