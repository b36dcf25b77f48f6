// Package output provides utilities for creating termenv.Output with consistent
// color profile and TTY handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorProfile returns the color profile to use for interactive terminals.
// NO_COLOR forces Ascii; otherwise the terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI returns the color profile for CI/non-interactive environments.
// NO_COLOR forces Ascii; otherwise ANSI is used for broad compatibility.
func ColorProfileANSI() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New creates a new termenv.Output using ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile(), opts...)
}

// NewWithProfile creates a new termenv.Output with a fixed profile.
func NewWithProfile(w io.Writer, profile termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profile),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// Paint renders s in the given brand color, degraded to the output's profile.
func Paint(out *termenv.Output, s string, c lipgloss.Color) string {
	return out.String(s).Foreground(out.Color(string(c))).String()
}
