package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the file walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// FileSystemNodeID is the unique identifier for the file system Graft node.
	FileSystemNodeID graft.ID = "adapter.fs.filesystem"
	// ResolverNodeID is the unique identifier for the glob resolver Graft node.
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	// HasherNodeID is the unique identifier for the argv hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
	// VerifierNodeID is the unique identifier for the output verifier Graft node.
	VerifierNodeID graft.ID = "adapter.fs.verifier"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.FileSystem]{
		ID:        FileSystemNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSystem, error) {
			return NewFileSystem(), nil
		},
	})

	graft.Register(graft.Node[ports.InputResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.InputResolver, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(walker, domain.MindDirName, domain.BuildDirName), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Verifier, error) {
			return NewVerifier(), nil
		},
	})
}
