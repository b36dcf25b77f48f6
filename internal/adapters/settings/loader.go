// Package settings loads the user's tool settings from layered TOML files.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SettingsLoader = (*Loader)(nil)

var (
	logFormats = []string{"", "pretty", "json"}
	logLevels  = []string{"", "debug", "info", "warn", "error"}
)

// Loader merges config.toml files from the user configuration directory, the
// project and an explicit path, in increasing priority.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load merges the settings files visible from cwd. Missing files are skipped,
// except explicit which must exist.
func (l *Loader) Load(cwd, explicit string) (*domain.Settings, error) {
	files := make([]string, 0, 3)
	if dir := userConfigDir(); dir != "" {
		files = append(files, filepath.Join(dir, domain.SettingsAppDir, domain.SettingsFileName))
	}
	files = append(files, filepath.Join(cwd, domain.DefaultSettingsPath()))

	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(cwd, explicit)
		}
		if _, err := os.Stat(explicit); err != nil {
			return nil, zerr.With(errors.Join(domain.ErrSettingsReadFailed, err), "path", explicit)
		}
		files = append(files, explicit)
	}

	merged := &domain.Settings{}
	for _, path := range slices.Compact(files) {
		s, err := l.loadFile(path)
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		if s == nil {
			continue
		}
		merged.Merge(s, path)
		l.Logger.Debug("loaded settings", "path", path)
	}

	if err := validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFile decodes one file. It returns nil, nil when the file does not exist.
func (l *Loader) loadFile(path string) (*domain.Settings, error) {
	// #nosec G304 -- path is one of the known settings locations
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Join(domain.ErrSettingsReadFailed, err)
	}

	var s domain.Settings
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err = dec.Decode(&s)

	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) {
		for _, e := range strictErr.Errors {
			l.Logger.Warn(fmt.Sprintf("unknown settings key %s in %s", strings.Join(e.Key(), "."), path))
		}
		s = domain.Settings{}
		err = toml.Unmarshal(data, &s)
	}

	if err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			err = zerr.With(zerr.With(errors.Join(domain.ErrSettingsParseFailed, err), "line", row), "column", col)
			return nil, err
		}
		return nil, errors.Join(domain.ErrSettingsParseFailed, err)
	}
	return &s, nil
}

func validate(s *domain.Settings) error {
	if s.Jobs < 0 {
		return zerr.With(zerr.Wrap(domain.ErrSettingsInvalid, "jobs must not be negative"), "jobs", s.Jobs)
	}
	if !slices.Contains(logFormats, s.LogFormat) {
		return zerr.With(zerr.Wrap(domain.ErrSettingsInvalid, "log_format must be pretty or json"), "log_format", s.LogFormat)
	}
	if !slices.Contains(logLevels, s.LogLevel) {
		return zerr.With(zerr.Wrap(domain.ErrSettingsInvalid, "unknown log_level"), "log_level", s.LogLevel)
	}
	return nil
}

// userConfigDir returns $XDG_CONFIG_HOME, falling back to ~/.config.
func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
