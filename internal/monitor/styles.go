package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysmon/internal/theme"
	"github.com/rileyhilliard/sysmon/internal/units"
)

// Bar glyphs.
const (
	barFilled = "▰"
	barEmpty  = "▱"
)

// Styles is the full set of dashboard styles for one palette. It is rebuilt
// whenever the theme changes.
type Styles struct {
	Palette theme.Palette

	Header    lipgloss.Style
	Section   lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Status    lipgloss.Style
	StatusErr lipgloss.Style
	Notice    lipgloss.Style
	Empty     lipgloss.Style
	Table     table.Styles

	HelpBox   lipgloss.Style
	HelpTitle lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
}

// NewStyles derives every style from p.
func NewStyles(p theme.Palette) Styles {
	s := Styles{
		Palette: p,
		Header: lipgloss.NewStyle().
			Foreground(p.Fg).
			Background(p.Panel).
			Padding(0, 1),
		Section: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(p.Fg),
		Value: lipgloss.NewStyle().
			Foreground(p.Fg).
			Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(p.Status),
		StatusErr: lipgloss.NewStyle().
			Foreground(p.Crit),
		Notice: lipgloss.NewStyle().
			Foreground(p.Accent),
		Empty: lipgloss.NewStyle().
			Foreground(p.Status),
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Background(p.Panel).
			Padding(1, 2),
		HelpTitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			MarginBottom(1),
		HelpKey: lipgloss.NewStyle().
			Foreground(p.Fg).
			Bold(true).
			Width(14),
		HelpDesc: lipgloss.NewStyle().
			Foreground(p.Status),
	}

	t := table.DefaultStyles()
	t.Header = t.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Status).
		BorderBottom(true).
		Bold(true).
		Foreground(p.Fg)
	t.Cell = t.Cell.
		Foreground(p.Fg)
	t.Selected = t.Selected.
		Foreground(p.Fg).
		Background(p.Selected).
		Bold(false)
	s.Table = t

	return s
}

// Bar renders a width-cell bar filled to pct in color.
func (s Styles) Bar(width int, pct float64, color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(BarGlyphs(width, pct))
}

// SeverityBar is Bar colored by the 50/75 severity tiers.
func (s Styles) SeverityBar(width int, pct float64) string {
	return s.Bar(width, pct, s.Palette.SeverityColor(pct))
}

// SeverityText colors text by the severity of pct.
func (s Styles) SeverityText(pct float64, text string) string {
	return lipgloss.NewStyle().Foreground(s.Palette.SeverityColor(pct)).Render(text)
}

// BarGlyphs returns the uncolored bar. pct is clamped to [0, 100] and width
// to at least 1.
func BarGlyphs(width int, pct float64) string {
	if width < 1 {
		width = 1
	}
	pct = units.ClampPercent(pct)

	filled := int(pct / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// shortPercent is the integer percentage drawn next to bars.
func shortPercent(pct float64) string {
	return fmt.Sprintf("%3.0f%%", units.ClampPercent(pct))
}
