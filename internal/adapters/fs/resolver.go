package fs

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using filepath.Glob.
// Patterns containing "**" match any number of directories and are expanded by walking.
type Resolver struct {
	walker  *Walker
	ignores []string
}

// NewResolver creates a new Resolver. Directories named like ignores are never descended into by "**".
func NewResolver(walker *Walker, ignores ...string) *Resolver {
	return &Resolver{walker: walker, ignores: ignores}
}

// ResolveInputs resolves the given patterns to a sorted, deduplicated list of
// paths relative to root. A pattern matching nothing is an error.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	unique := make(map[string]struct{})

	for _, input := range inputs {
		var matches []string
		var err error
		if strings.Contains(input, "**") {
			matches, err = r.walkGlob(input, root)
		} else {
			matches, err = filepath.Glob(filepath.Join(root, input))
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", input)
		}

		if len(matches) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrSourceNotFound, "pattern matched no file"), "pattern", input)
		}

		for _, match := range matches {
			rel, err := filepath.Rel(root, match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", match)
			}
			unique[filepath.ToSlash(rel)] = struct{}{}
		}
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

// walkGlob matches every file below root against a pattern that may contain "**".
func (r *Resolver) walkGlob(pattern, root string) ([]string, error) {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	if _, err := filepath.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
		return nil, err
	}

	var matches []string
	for file := range r.walker.WalkFiles(root, r.ignores) {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			continue
		}
		if matchSegments(parts, strings.Split(filepath.ToSlash(rel), "/")) {
			matches = append(matches, file)
		}
	}
	return matches, nil
}

// matchSegments matches path segments against pattern segments where "**"
// stands for zero or more segments.
func matchSegments(pattern, path []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(path); i++ {
				if matchSegments(rest, path[i:]) {
					return true
				}
			}
			return false
		}
		if len(path) == 0 {
			return false
		}
		if ok, _ := filepath.Match(pattern[0], path[0]); !ok {
			return false
		}
		pattern, path = pattern[1:], path[1:]
	}
	return len(path) == 0
}
