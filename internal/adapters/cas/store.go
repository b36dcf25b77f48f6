// Package cas stores the signatures of build outputs, one file per output.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SignatureStore = (*Store)(nil)

// Store implements ports.SignatureStore using a file-per-output strategy below
// the project's .mind/store directory.
type Store struct{}

// NewStore creates a new SignatureStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the signature recorded for an output.
func (s *Store) Get(root, output string) (*domain.Signature, error) {
	filename := s.getFilename(root, output)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Join(domain.ErrStoreReadFailed, zerr.With(err, "output", output))
	}

	var sig domain.Signature
	if err := json.Unmarshal(data, &sig); err != nil {
		return nil, errors.Join(domain.ErrStoreUnmarshalFailed, zerr.With(err, "output", output))
	}

	return &sig, nil
}

// Put stores the signature.
func (s *Store) Put(root string, sig domain.Signature) error {
	data, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrStoreMarshalFailed, err)
	}

	filename := s.getFilename(root, sig.Output)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return errors.Join(domain.ErrStoreCreateFailed, err)
	}

	// Readers never observe a partially written signature.
	tmp := filename + ".tmp"
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, zerr.With(err, "output", sig.Output))
	}
	if err := os.Rename(tmp, filename); err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, zerr.With(err, "output", sig.Output))
	}

	return nil
}

func (s *Store) getFilename(root, output string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(output)))
	hexHash := hex.EncodeToString(hash[:])
	return filepath.Join(root, domain.DefaultStorePath(), hexHash+".json")
}
