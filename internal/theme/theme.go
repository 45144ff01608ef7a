// Package theme holds the dark and light color palettes and resolves the
// "auto" mode against the desktop or terminal background.
package theme

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rileyhilliard/sysmon/internal/units"
)

// Mode is the user-selected theme setting.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// Modes lists every valid mode in cycle order.
var Modes = []Mode{ModeAuto, ModeDark, ModeLight}

// Next returns the next mode in the cycle auto -> dark -> light -> auto.
func (m Mode) Next() Mode {
	switch m {
	case ModeAuto:
		return ModeDark
	case ModeDark:
		return ModeLight
	default:
		return ModeAuto
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeAuto || m == ModeDark || m == ModeLight
}

// Palette is a full set of dashboard colors.
type Palette struct {
	Name     string
	Bg       lipgloss.Color
	Panel    lipgloss.Color
	Fg       lipgloss.Color
	Accent   lipgloss.Color
	Warn     lipgloss.Color
	Crit     lipgloss.Color
	Disk     lipgloss.Color
	Swap     lipgloss.Color
	Status   lipgloss.Color
	Selected lipgloss.Color
}

var Dark = Palette{
	Name:     "dark",
	Bg:       lipgloss.Color("#121212"),
	Panel:    lipgloss.Color("#1e1e1e"),
	Fg:       lipgloss.Color("#e0e0e0"),
	Accent:   lipgloss.Color("#4caf50"),
	Warn:     lipgloss.Color("#ff9800"),
	Crit:     lipgloss.Color("#f44336"),
	Disk:     lipgloss.Color("#03a9f4"),
	Swap:     lipgloss.Color("#9c27b0"),
	Status:   lipgloss.Color("#888888"),
	Selected: lipgloss.Color("#333333"),
}

var Light = Palette{
	Name:     "light",
	Bg:       lipgloss.Color("#f5f5f5"),
	Panel:    lipgloss.Color("#e0e0e0"),
	Fg:       lipgloss.Color("#202020"),
	Accent:   lipgloss.Color("#388e3c"),
	Warn:     lipgloss.Color("#f57c00"),
	Crit:     lipgloss.Color("#d32f2f"),
	Disk:     lipgloss.Color("#0288d1"),
	Swap:     lipgloss.Color("#7b1fa2"),
	Status:   lipgloss.Color("#555555"),
	Selected: lipgloss.Color("#bdbdbd"),
}

// SeverityColor returns the accent, warn or crit color for pct using the
// fixed 50/75 thresholds.
func (p Palette) SeverityColor(pct float64) lipgloss.Color {
	switch units.SeverityOf(pct) {
	case units.Critical:
		return p.Crit
	case units.Warning:
		return p.Warn
	default:
		return p.Accent
	}
}

// Detector reports whether the environment prefers a dark theme. ok is false
// when it cannot tell.
type Detector func() (dark bool, ok bool)

// Resolve picks the palette for mode. Auto consults each detector in order
// and falls back to Dark when none of them can decide.
func Resolve(mode Mode, detectors ...Detector) Palette {
	switch mode {
	case ModeDark:
		return Dark
	case ModeLight:
		return Light
	}
	for _, d := range detectors {
		if dark, ok := d(); ok {
			if dark {
				return Dark
			}
			return Light
		}
	}
	return Dark
}

// DefaultDetectors are used by the dashboard: the GNOME color-scheme setting
// first, then the terminal's reported background.
func DefaultDetectors() []Detector {
	return []Detector{DesktopColorScheme, TerminalBackground}
}

// DesktopColorScheme asks gsettings for org.gnome.desktop.interface
// color-scheme.
func DesktopColorScheme() (bool, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gsettings", "get", "org.gnome.desktop.interface", "color-scheme").Output()
	if err != nil {
		return false, false
	}
	return ParseColorScheme(string(out))
}

// ParseColorScheme interprets gsettings output such as 'prefer-dark'.
func ParseColorScheme(out string) (dark bool, ok bool) {
	out = strings.ToLower(strings.TrimSpace(out))
	switch {
	case strings.Contains(out, "dark"):
		return true, true
	case strings.Contains(out, "light"):
		return false, true
	default:
		return false, false
	}
}

// TerminalBackground uses termenv's OSC query of the terminal background.
func TerminalBackground() (bool, bool) {
	out := termenv.NewOutput(os.Stdout)
	if out.Profile == termenv.Ascii {
		return false, false
	}
	return out.HasDarkBackground(), true
}
