package settings

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindc/internal/adapters/logger"
	"go.trai.ch/mindc/internal/core/ports"
)

// NodeID is the unique identifier for the settings loader Graft node.
const NodeID graft.ID = "adapter.settings_loader"

func init() {
	graft.Register(graft.Node[ports.SettingsLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SettingsLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
