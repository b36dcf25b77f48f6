package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrInternal marks errors caused by a malformed command set or an unexpected
	// failure of the scheduler itself, as opposed to a step that did not build.
	ErrInternal = zerr.New("internal build error")

	// ErrDuplicateOutput is returned when two commands declare the same output file.
	ErrDuplicateOutput = zerr.New("output file is produced by more than one command")

	// ErrMissingInput is returned when an input file has no producer and does not exist on disk.
	ErrMissingInput = zerr.New("missing input file of compilation command")

	// ErrDependencyCycle is returned when commands depend on each other's outputs in a loop.
	ErrDependencyCycle = zerr.New("dependency cycle between compilation commands")

	// ErrWorkerPanic is returned when a command panics while being executed.
	ErrWorkerPanic = zerr.New("unexpected panic while executing command")

	// ErrPrepareFailed is returned when a command cannot finalize its file sets.
	ErrPrepareFailed = zerr.New("failed to prepare command")

	// ErrStatFailed is returned when a file timestamp cannot be read for a reason other than absence.
	ErrStatFailed = zerr.New("failed to stat file")

	// ErrCommandFailed is returned by a command whose step did not succeed.
	ErrCommandFailed = zerr.New("command failed")

	// ErrBuildFailed is returned when at least one command failed during a build.
	ErrBuildFailed = zerr.New("build failed")

	// ErrManifestNotFound is returned when no build manifest is found in the directory tree.
	ErrManifestNotFound = zerr.New("no build manifest found")

	// ErrAmbiguousManifest is returned when a directory holds both a YAML and an HCL manifest.
	ErrAmbiguousManifest = zerr.New("both mind.yaml and mind.hcl found")

	// ErrManifestReadFailed is returned when the manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read build manifest")

	// ErrManifestParseFailed is returned when the manifest cannot be decoded.
	ErrManifestParseFailed = zerr.New("failed to parse build manifest")

	// ErrManifestInvalid is returned when the manifest does not match its schema.
	ErrManifestInvalid = zerr.New("invalid build manifest")

	// ErrDuplicateTarget is returned when two targets share the same name.
	ErrDuplicateTarget = zerr.New("duplicate target name")

	// ErrUnknownTarget is returned when a target references a library target that does not exist.
	ErrUnknownTarget = zerr.New("unknown target")

	// ErrNoSources is returned when a target declares no sources.
	ErrNoSources = zerr.New("target has no sources")

	// ErrSourceNotFound is returned when a source pattern matches no file.
	ErrSourceNotFound = zerr.New("source not found")

	// ErrUnsupportedSource is returned when a source file has an extension the toolchain cannot build.
	ErrUnsupportedSource = zerr.New("unsupported source file")

	// ErrSettingsReadFailed is returned when a settings file exists but cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings")

	// ErrSettingsParseFailed is returned when a settings file is not valid TOML.
	ErrSettingsParseFailed = zerr.New("failed to parse settings")

	// ErrSettingsInvalid is returned when a settings value is out of range.
	ErrSettingsInvalid = zerr.New("invalid settings")

	// ErrDepFileParse is returned when a dependency file is malformed.
	ErrDepFileParse = zerr.New("failed to parse dependency file")

	// ErrStoreCreateFailed is returned when the signature store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create signature store directory")

	// ErrStoreReadFailed is returned when a signature cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read signature")

	// ErrStoreUnmarshalFailed is returned when a signature cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal signature")

	// ErrStoreMarshalFailed is returned when a signature cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal signature")

	// ErrStoreWriteFailed is returned when a signature cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write signature")

	// ErrCleanFailed is returned when build artifacts cannot be removed.
	ErrCleanFailed = zerr.New("failed to remove build artifacts")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")
)

// Internal marks err as a fatal internal error.
// errors.Is(Internal(err), ErrInternal) reports true and the original chain is preserved.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrInternal, err)
}

// IsInternal reports whether err was marked with Internal.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
