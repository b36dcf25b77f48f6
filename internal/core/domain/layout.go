package domain

import "path/filepath"

const (
	// MindDirName is the name of the internal workspace directory.
	MindDirName = ".mind"

	// StoreDirName is the name of the command signature store directory.
	StoreDirName = "store"

	// BuildDirName is the default name of the directory receiving build outputs.
	BuildDirName = "build"

	// ManifestYAMLName is the name of the YAML build manifest.
	ManifestYAMLName = "mind.yaml"

	// ManifestHCLName is the name of the HCL build manifest.
	ManifestHCLName = "mind.hcl"

	// SettingsFileName is the name of the TOML settings file.
	SettingsFileName = "config.toml"

	// SettingsAppDir is the directory name used under the user configuration directory.
	SettingsAppDir = "mindc"

	// DepFileExt is the extension of generated dependency files.
	DepFileExt = ".d"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultMindPath returns the default root directory for mindc metadata.
func DefaultMindPath() string {
	return MindDirName
}

// DefaultStorePath returns the default path for the signature store.
// It joins .mind and store.
func DefaultStorePath() string {
	return filepath.Join(MindDirName, StoreDirName)
}

// DefaultSettingsPath returns the project-local settings file path.
// It joins .mind and config.toml.
func DefaultSettingsPath() string {
	return filepath.Join(MindDirName, SettingsFileName)
}
