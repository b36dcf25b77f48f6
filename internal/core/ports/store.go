package ports

import "go.trai.ch/mindc/internal/core/domain"

// SignatureStore defines the interface for recording the command line that produced an output.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SignatureStore interface {
	// Get retrieves the signature recorded for an output path in the project at root.
	// Returns nil, nil if not found.
	Get(root, output string) (*domain.Signature, error)

	// Put stores the signature in the project at root.
	Put(root string, sig domain.Signature) error
}
