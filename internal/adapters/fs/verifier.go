package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier stats declared outputs after a command ran.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// MissingOutputs returns the outputs that do not exist. A directory counts as
// missing: every output of a build step is a regular file.
func (v *Verifier) MissingOutputs(root string, outputs []string) ([]string, error) {
	var missing []string
	for _, output := range outputs {
		path := output
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, output)
		}
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, iofs.ErrNotExist):
			missing = append(missing, output)
		case err != nil:
			return nil, zerr.With(zerr.Wrap(err, "failed to stat output"), "path", path)
		case info.IsDir():
			missing = append(missing, output)
		}
	}
	return missing, nil
}
