// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Sky    = lipgloss.Color("#0EA5E9")
	Teal   = lipgloss.Color("#14B8A6")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// Command kinds, as they prefix command descriptions.
const (
	KindPreprocess = "CPP"
	KindCompile    = "GCC"
	KindAssemble   = "AS"
	KindArchive    = "AR"
	KindLink       = "LD"
)

var kindColors = map[string]lipgloss.Color{
	KindPreprocess: Iris,
	KindCompile:    Sky,
	KindAssemble:   Teal,
	KindArchive:    Yellow,
	KindLink:       Green,
}

// CommandKind extracts the kind from a description such as "GCC: build/a.o".
func CommandKind(description string) string {
	kind, _, ok := strings.Cut(description, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(kind)
}

// CommandColor returns the color of the command kind in description, or Slate.
func CommandColor(description string) lipgloss.Color {
	if c, ok := kindColors[CommandKind(description)]; ok {
		return c
	}
	return Slate
}
