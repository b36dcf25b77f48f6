package ports

import "go.trai.ch/mindc/internal/core/domain"

// ManifestLoader defines the interface for loading the build manifest.
//
//go:generate mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load finds the manifest governing cwd and decodes it.
	Load(cwd string) (*domain.Manifest, error)

	// DiscoverRoot walks up from cwd to the directory holding mind.yaml or mind.hcl.
	DiscoverRoot(cwd string) (string, error)
}
