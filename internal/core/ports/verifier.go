package ports

// Verifier checks that a command produced what it declared.
//
//go:generate mockgen -destination=mocks/verifier_mock.go -package=mocks -source=verifier.go
type Verifier interface {
	// MissingOutputs returns the outputs that do not exist, in the given order.
	// Relative outputs are resolved against root.
	MissingOutputs(root string, outputs []string) ([]string, error)
}
