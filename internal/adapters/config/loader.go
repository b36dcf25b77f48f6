// Package config provides the build manifest loader for mindc.
package config

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ManifestLoader = (*Loader)(nil)

// Loader implements ports.ManifestLoader for mind.yaml and mind.hcl files.
type Loader struct {
	Logger   ports.Logger
	Resolver ports.InputResolver
	FS       FileSystem
}

// NewLoader creates a new Loader reading from the local disk.
func NewLoader(logger ports.Logger, resolver ports.InputResolver) *Loader {
	return &Loader{Logger: logger, Resolver: resolver, FS: NewOSFS()}
}

// Load finds the manifest governing cwd, decodes it, expands source globs and
// validates the result.
func (l *Loader) Load(cwd string) (*domain.Manifest, error) {
	path, err := l.findManifest(cwd)
	if err != nil {
		return nil, err
	}

	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrManifestReadFailed, err), "path", path)
	}

	var file *Manifest
	if filepath.Base(path) == domain.ManifestHCLName {
		file, err = decodeHCL(path, data)
	} else {
		file, err = decodeYAML(data)
	}
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	m, err := l.buildManifest(path, file)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.Logger.Debug("loaded manifest", "path", path, "targets", len(m.Targets))
	return m, nil
}

// DiscoverRoot returns the directory holding the manifest governing cwd.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	path, err := l.findManifest(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

func (l *Loader) findManifest(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)

	for {
		yamlPath := filepath.Join(currentDir, domain.ManifestYAMLName)
		hclPath := filepath.Join(currentDir, domain.ManifestHCLName)
		hasYAML, err := l.isFile(yamlPath)
		if err != nil {
			return "", err
		}
		hasHCL, err := l.isFile(hclPath)
		if err != nil {
			return "", err
		}

		switch {
		case hasYAML && hasHCL:
			return "", zerr.With(zerr.Wrap(domain.ErrAmbiguousManifest, "cannot choose a manifest"), "directory", currentDir)
		case hasYAML:
			return yamlPath, nil
		case hasHCL:
			return hclPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "no mind.yaml or mind.hcl in any parent directory"), "cwd", cwd)
}

func (l *Loader) isFile(path string) (bool, error) {
	info, err := l.FS.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(errors.Join(domain.ErrManifestReadFailed, err), "path", path)
	}
	return !info.IsDir(), nil
}

// decodeYAML unmarshals mind.yaml after checking it against the manifest schema.
func decodeYAML(data []byte) (*Manifest, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(domain.ErrManifestParseFailed, err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var file Manifest
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(domain.ErrManifestParseFailed, err)
	}
	return &file, nil
}

func (l *Loader) buildManifest(path string, file *Manifest) (*domain.Manifest, error) {
	if file.Version != "" && file.Version != "1" {
		return nil, zerr.With(zerr.Wrap(domain.ErrManifestInvalid, "unsupported manifest version"), "version", file.Version)
	}

	root := filepath.Dir(path)
	m := &domain.Manifest{
		Root:      root,
		Path:      path,
		BuildDir:  file.BuildDir,
		Toolchain: buildToolchain(file.Toolchain),
	}
	if m.BuildDir == "" {
		m.BuildDir = domain.BuildDirName
	}

	for _, dto := range file.Targets {
		target, err := l.buildTarget(root, dto)
		if err != nil {
			return nil, zerr.With(err, "target", dto.Name)
		}
		m.Targets = append(m.Targets, target)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func buildToolchain(dto ToolchainDTO) domain.Toolchain {
	tc := domain.DefaultToolchain()
	if dto.CC != "" {
		tc.CC = dto.CC
		// The assembler and linker driver follow the compiler unless set.
		tc.AS = dto.CC
		tc.LD = dto.CC
	}
	if dto.AS != "" {
		tc.AS = dto.AS
	}
	if dto.LD != "" {
		tc.LD = dto.LD
	}
	if dto.AR != "" {
		tc.AR = dto.AR
	}
	if dto.Preprocess != nil {
		tc.Preprocess = *dto.Preprocess
	}
	tc.CFlags = dto.CFlags
	tc.CPPFlags = dto.CPPFlags
	tc.ASFlags = dto.ASFlags
	tc.LDFlags = dto.LDFlags
	tc.LinkerScript = dto.LinkerScript
	return tc
}

func (l *Loader) buildTarget(root string, dto TargetDTO) (domain.Target, error) {
	kind := domain.TargetKind(dto.Kind)
	switch kind {
	case "":
		kind = domain.KindExecutable
	case domain.KindExecutable, domain.KindLibrary:
	default:
		return domain.Target{}, zerr.With(zerr.Wrap(domain.ErrManifestInvalid, "unknown target kind"), "kind", dto.Kind)
	}

	if kind == domain.KindLibrary && len(dto.LDFlags) > 0 {
		l.Logger.Warn(fmt.Sprintf("'ldflags' of library target %s have no effect", dto.Name))
	}

	var sources []string
	if len(dto.Sources) > 0 {
		var err error
		sources, err = l.Resolver.ResolveInputs(dto.Sources, root)
		if err != nil {
			return domain.Target{}, err
		}
	}

	return domain.Target{
		Name:     dto.Name,
		Kind:     kind,
		Sources:  sources,
		Includes: dto.Includes,
		Defines:  dto.Defines,
		CFlags:   dto.CFlags,
		LDFlags:  dto.LDFlags,
		Link:     dto.Link,
		Output:   dto.Output,
	}, nil
}
