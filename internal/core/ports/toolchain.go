package ports

import "go.trai.ch/mindc/internal/core/domain"

// CommandFactory turns a manifest into the command set of one build.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type CommandFactory interface {
	// Commands returns fresh, unprepared commands for every target of m.
	Commands(m *domain.Manifest) ([]Command, error)

	// WithOverrides returns a factory whose compiler and linker replace those
	// of the manifest when set.
	WithOverrides(ts domain.ToolSettings) CommandFactory
}
