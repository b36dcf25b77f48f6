package ports

// InputResolver defines the interface for resolving source patterns.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type InputResolver interface {
	// ResolveInputs resolves the given patterns, relative to root, to a sorted
	// list of root-relative file paths. "**" matches any number of directories.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
