package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mindc/internal/core/ports"
)

// NodeID is the unique identifier for the signature store Graft node.
const NodeID graft.ID = "adapter.signature_store"

func init() {
	graft.Register(graft.Node[ports.SignatureStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SignatureStore, error) {
			return NewStore(), nil
		},
	})
}
