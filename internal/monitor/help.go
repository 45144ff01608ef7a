package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelpOverlay renders a centered box listing every key binding.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, m.styles.HelpTitle.Render("Keyboard Shortcuts"))

	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, m.styles.HelpKey.Render(h.Key)+m.styles.HelpDesc.Render(h.Desc))
		}
	}
	lines = append(lines, m.styles.HelpKey.Render("↑/↓ j/k")+m.styles.HelpDesc.Render("move in process list"))

	lines = append(lines, "")
	lines = append(lines, m.styles.Status.Render("Press ? to close"))

	box := m.styles.HelpBox.Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(m.palette.Bg),
	)
}
