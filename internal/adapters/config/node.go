package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindc/internal/adapters/fs"
	"go.trai.ch/mindc/internal/adapters/logger"
	"go.trai.ch/mindc/internal/core/ports"
)

// NodeID is the unique identifier for the manifest loader Graft node.
const NodeID graft.ID = "adapter.manifest_loader"

func init() {
	graft.Register(graft.Node[ports.ManifestLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.ResolverNodeID},
		Run: func(ctx context.Context) (ports.ManifestLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, resolver), nil
		},
	})
}
