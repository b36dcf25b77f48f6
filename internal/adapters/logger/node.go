package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindc/internal/adapters/detector"
	"go.trai.ch/mindc/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{detector.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			mode, err := graft.Dep[detector.OutputMode](ctx)
			if err != nil {
				return nil, err
			}
			l := New()
			l.SetProfile(mode.Profile())
			return l, nil
		},
	})
}
