// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/mindc/internal/ui/output"
	"golang.org/x/term"
)

// OutputMode represents how much color the renderer may use.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTerminal uses the full color profile of an interactive terminal.
	ModeTerminal
	// ModeCI uses basic ANSI colors, which CI log viewers understand.
	ModeCI
	// ModePlain disables color.
	ModePlain
)

// DetectEnvironment returns the recommended output mode based on the environment.
// NO_COLOR wins; CI environments get ANSI colors; otherwise stderr must be a TTY
// for colors to be used.
func DetectEnvironment() OutputMode {
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}

	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" {
		return ModeCI
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		return ModeTerminal
	}
	return ModePlain
}

// ResolveMode applies the --color flag to auto-detection.
// userFlag should be one of: "auto", "always", "never", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "always":
		if autoDetected == ModeTerminal {
			return ModeTerminal
		}
		return ModeCI
	case "never":
		return ModePlain
	default:
		return autoDetected
	}
}

// Profile returns the termenv color profile of the mode.
func (m OutputMode) Profile() termenv.Profile {
	switch m {
	case ModeTerminal:
		return output.ColorProfile()
	case ModeCI:
		return termenv.ANSI
	case ModePlain:
		return termenv.Ascii
	default:
		return DetectEnvironment().Profile()
	}
}

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTerminal:
		return "terminal"
	case ModeCI:
		return "ci"
	case ModePlain:
		return "plain"
	default:
		return "auto"
	}
}
