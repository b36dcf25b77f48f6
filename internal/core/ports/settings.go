package ports

import "go.trai.ch/mindc/internal/core/domain"

// SettingsLoader defines the interface for loading tool settings.
//
//go:generate mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks
type SettingsLoader interface {
	// Load merges the settings files visible from cwd. explicit, when set,
	// names a file that must exist and takes precedence over all others.
	Load(cwd, explicit string) (*domain.Settings, error)
}
