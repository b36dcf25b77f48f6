package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mindc/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints command lines.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashArgs computes the XXHash of an argument vector.
// Arguments are NUL-separated so that {"a b"} and {"a", "b"} differ.
func (h *Hasher) HashArgs(argv []string) string {
	hasher := xxhash.New()
	for _, arg := range argv {
		_, _ = hasher.WriteString(arg)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = fmt.Fprintf(hasher, "%d", len(argv))
	return fmt.Sprintf("%016x", hasher.Sum64())
}
