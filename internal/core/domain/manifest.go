package domain

import "go.trai.ch/zerr"

// TargetKind selects what the toolchain produces for a target.
type TargetKind string

const (
	// KindExecutable links the target's objects into an executable.
	KindExecutable TargetKind = "executable"
	// KindLibrary archives the target's objects into a static library.
	KindLibrary TargetKind = "library"
)

// Toolchain describes the compiler tools and global flags of a build.
type Toolchain struct {
	CC           string
	AS           string
	LD           string
	AR           string
	CFlags       []string
	CPPFlags     []string
	ASFlags      []string
	LDFlags      []string
	LinkerScript string
	// Preprocess runs the preprocessor as a separate step producing .i files.
	Preprocess bool
}

// Target is one executable or static library of the manifest.
type Target struct {
	Name string
	Kind TargetKind
	// Sources are paths relative to the manifest root, with globs already expanded.
	Sources  []string
	Includes []string
	Defines  []string
	CFlags   []string
	LDFlags  []string
	// Link names library targets whose archives are linked into this target.
	Link []string
	// Output overrides the artifact file name, relative to the build directory.
	Output string
}

// Manifest is the decoded build description of a project.
type Manifest struct {
	// Root is the absolute directory holding the manifest file.
	Root string
	// Path is the absolute path of the manifest file.
	Path string
	// BuildDir is the directory receiving outputs, relative to Root.
	BuildDir  string
	Toolchain Toolchain
	Targets   []Target
}

// DefaultToolchain returns the toolchain used when the manifest leaves fields empty.
func DefaultToolchain() Toolchain {
	return Toolchain{
		CC:         "gcc",
		AS:         "gcc",
		LD:         "gcc",
		AR:         "ar",
		Preprocess: true,
	}
}

// Target returns the target with the given name.
func (m *Manifest) Target(name string) (Target, bool) {
	for _, t := range m.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// ArtifactName returns the file name of the target's final artifact.
func (t *Target) ArtifactName() string {
	if t.Output != "" {
		return t.Output
	}
	if t.Kind == KindLibrary {
		return "lib" + t.Name + ".a"
	}
	return t.Name
}

// Validate checks target names, sources and library references.
func (m *Manifest) Validate() error {
	seen := make(map[string]struct{}, len(m.Targets))
	for _, t := range m.Targets {
		if _, ok := seen[t.Name]; ok {
			return zerr.With(zerr.Wrap(ErrDuplicateTarget, "target declared twice"), "target", t.Name)
		}
		seen[t.Name] = struct{}{}
	}

	for _, t := range m.Targets {
		if len(t.Sources) == 0 {
			return zerr.With(zerr.Wrap(ErrNoSources, "cannot build target"), "target", t.Name)
		}
		for _, name := range t.Link {
			lib, ok := m.Target(name)
			if !ok || lib.Kind != KindLibrary {
				err := zerr.With(zerr.Wrap(ErrUnknownTarget, "linked target is not a library of this manifest"), "link", name)
				return zerr.With(err, "target", t.Name)
			}
		}
	}
	return nil
}
