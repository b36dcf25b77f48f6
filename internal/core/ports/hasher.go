package ports

// Hasher defines the interface for computing fingerprints.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// HashArgs fingerprints a command line. Argument boundaries are significant.
	HashArgs(argv []string) string
}
