package ports

import "time"

// FileSystem is the only file access the scheduler performs: existence and
// modification times. It never reads file contents.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ModTime returns the modification time of path and whether it exists.
	// A missing file is not an error.
	ModTime(path string) (time.Time, bool, error)
}
