package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"time"

	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem reads modification times from the local disk.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// ModTime returns the modification time of path. A path that does not exist
// is reported with exists=false and no error.
func (f *FileSystem) ModTime(path string) (time.Time, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info.ModTime(), true, nil
}
