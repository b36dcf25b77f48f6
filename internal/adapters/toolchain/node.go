package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindc/internal/adapters/cas"
	"go.trai.ch/mindc/internal/adapters/fs"
	"go.trai.ch/mindc/internal/adapters/logger"
	"go.trai.ch/mindc/internal/adapters/shell"
	"go.trai.ch/mindc/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain Graft node.
const NodeID graft.ID = "adapter.toolchain"

func init() {
	graft.Register(graft.Node[ports.CommandFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.HasherNodeID,
			cas.NodeID,
			fs.FileSystemNodeID,
			fs.VerifierNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.CommandFactory, error) {
			runner, err := graft.Dep[ports.ProcessRunner](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.SignatureStore](ctx)
			if err != nil {
				return nil, err
			}
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(runner, hasher, store, fsys, verifier, log), nil
		},
	})
}
