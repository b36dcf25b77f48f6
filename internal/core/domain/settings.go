package domain

// Settings are the user defaults read from config.toml files.
// Zero values mean "not set".
type Settings struct {
	Jobs        int          `toml:"jobs"`
	FailFast    bool         `toml:"fail_fast"`
	LogFormat   string       `toml:"log_format"`
	LogLevel    string       `toml:"log_level"`
	MetricsFile string       `toml:"metrics_file"`
	Toolchain   ToolSettings `toml:"toolchain"`
	// Sources lists the files merged into these settings, in order.
	Sources []string `toml:"-"`
}

// ToolSettings override the manifest's compiler commands on this machine.
type ToolSettings struct {
	CC string `toml:"cc"`
	LD string `toml:"ld"`
}

// Merge overlays the fields set in other onto s.
func (s *Settings) Merge(other *Settings, source string) {
	if other == nil {
		return
	}
	if other.Jobs > 0 {
		s.Jobs = other.Jobs
	}
	if other.FailFast {
		s.FailFast = true
	}
	if other.LogFormat != "" {
		s.LogFormat = other.LogFormat
	}
	if other.LogLevel != "" {
		s.LogLevel = other.LogLevel
	}
	if other.MetricsFile != "" {
		s.MetricsFile = other.MetricsFile
	}
	if other.Toolchain.CC != "" {
		s.Toolchain.CC = other.Toolchain.CC
	}
	if other.Toolchain.LD != "" {
		s.Toolchain.LD = other.Toolchain.LD
	}
	if source != "" {
		s.Sources = append(s.Sources, source)
	}
}
