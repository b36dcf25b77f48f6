// Package fs provides file system adapters for stat, walking, globbing and fingerprinting.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files below root, skipping VCS metadata and directories matching ignores.
// Yielded paths include root.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return w.walk(root, ignores, false)
}

// WalkDirs yields root and every directory below it that is not skipped.
func (w *Walker) WalkDirs(root string, ignores []string) iter.Seq[string] {
	return w.walk(root, ignores, true)
}

func (w *Walker) walk(root string, ignores []string, dirs bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != root && w.shouldSkip(d, ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() != dirs {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkip reports whether an entry is VCS metadata or matches one of the ignore patterns.
func (w *Walker) shouldSkip(d fs.DirEntry, ignores []string) bool {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj") {
		return true
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
