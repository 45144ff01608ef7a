package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/hostinfo"
	"github.com/rileyhilliard/sysmon/internal/units"
)

// coreColumns is the number of per-core cells per row.
const coreColumns = 4

// minTableHeight keeps a few process rows visible on short terminals.
const minTableHeight = 5

// Fixed process table columns; CMD takes the remaining width.
var fixedColumns = []table.Column{
	{Title: "PID", Width: 7},
	{Title: "USER", Width: 10},
	{Title: "%CPU", Width: 6},
	{Title: "%MEM", Width: 6},
	{Title: "VIRT", Width: 8},
	{Title: "RES", Width: 8},
	{Title: "TIME", Width: 8},
}

const minCommandWidth = 12

// tableColumns returns the column set for a terminal width cells wide.
// Every cell carries one cell of padding on each side.
func tableColumns(width int) []table.Column {
	used := 0
	for _, c := range fixedColumns {
		used += c.Width + 2
	}
	cmd := width - used - 2
	if cmd < minCommandWidth {
		cmd = minCommandWidth
	}
	cols := make([]table.Column, 0, len(fixedColumns)+1)
	cols = append(cols, fixedColumns...)
	return append(cols, table.Column{Title: "CMD", Width: cmd})
}

// layoutTable fits the table to whatever space the top panels leave.
func (m *Model) layoutTable() {
	m.table.SetColumns(tableColumns(m.width))
	m.table.SetWidth(m.width)

	h := m.height - lipgloss.Height(m.renderTop()) - 2 // status bar + footer
	if h < minTableHeight {
		h = minTableHeight
	}
	m.table.SetHeight(h)
}

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(m.renderTop())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderTop renders everything above the process table.
func (m Model) renderTop() string {
	if m.snap == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(nil),
			m.styles.Empty.Render("Sampling…"),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(m.snap.Host.Lines()),
		m.renderCPU(),
		m.renderMemory(),
	)
}

// renderHeader renders the host identity block.
func (m Model) renderHeader(lines []string) string {
	if len(lines) == 0 {
		lines = []string{"sysmon"}
	}
	inner := m.width - 2 // header padding
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = m.clip(l, inner)
	}
	return m.styles.Header.Width(m.width).Render(strings.Join(out, "\n"))
}

// renderCPU renders the total bar and the per-core grid.
func (m Model) renderCPU() string {
	cpu := m.snap.CPU
	lines := []string{m.styles.Section.Render("CPU Usage")}

	barW := m.width - len("Total ") - 5
	lines = append(lines, fmt.Sprintf("%s%s %s",
		m.styles.Label.Render("Total "),
		m.styles.SeverityBar(barW, cpu.Total),
		m.styles.SeverityText(cpu.Total, shortPercent(cpu.Total)),
	))

	cellW := m.width / coreColumns
	coreBarW := cellW - 13 // "CPU99 " + " " + "100%" + gap
	if coreBarW < 3 {
		coreBarW = 3
	}

	var row []string
	for i, pct := range cpu.PerCore {
		cell := fmt.Sprintf("%s%s %s ",
			m.styles.Label.Render(fmt.Sprintf("CPU%-3d", i)),
			m.styles.SeverityBar(coreBarW, pct),
			m.styles.SeverityText(pct, shortPercent(pct)),
		)
		row = append(row, cell)
		if len(row) == coreColumns || i == len(cpu.PerCore)-1 {
			lines = append(lines, strings.Join(row, ""))
			row = row[:0]
		}
	}
	return strings.Join(lines, "\n")
}

// renderMemory renders the RAM, swap and disk labels with their bars. RAM
// is colored by severity; swap and disk use their fixed palette colors.
func (m Model) renderMemory() string {
	s := m.snap
	barW := m.width - 5
	p := m.styles.Palette

	lines := []string{
		m.styles.Section.Render("Memory / Swap / Disk"),
		m.styles.Label.Render("RAM: " + units.Usage(s.Memory.Used, s.Memory.Total, s.Memory.Percent)),
		m.styles.SeverityBar(barW, s.Memory.Percent) + " " + shortPercent(s.Memory.Percent),
		m.styles.Label.Render("SWAP: " + units.Usage(s.Swap.Used, s.Swap.Total, s.Swap.Percent)),
		m.styles.Bar(barW, s.Swap.Percent, p.Swap) + " " + shortPercent(s.Swap.Percent),
		m.styles.Label.Render(fmt.Sprintf("Disk %s: %s", s.Disk.Path, units.Usage(s.Disk.Used, s.Disk.Total, s.Disk.Percent))),
		m.styles.Bar(barW, s.Disk.Percent, p.Disk) + " " + shortPercent(s.Disk.Percent),
	}
	return strings.Join(lines, "\n")
}

// StatusLine is the plain text of the status bar:
//
//	Host: atlas | Uptime: 2 days 3:04:05 | Processes: 1,204 | Interval: 1.0s | CPU: 12.5%
func StatusLine(snap *Snapshot, interval time.Duration) string {
	if snap == nil {
		return "Interval: " + units.Interval(interval)
	}
	return strings.Join([]string{
		"Host: " + snap.Host.Hostname,
		"Uptime: " + hostinfo.FormatUptime(snap.Host.Uptime),
		"Processes: " + humanize.Comma(int64(snap.ProcessCount)),
		"Interval: " + units.Interval(interval),
		"CPU: " + units.Percent(snap.CPU.Total),
	}, " | ")
}

// renderStatusBar renders the status line plus sort, error and notice.
func (m Model) renderStatusBar() string {
	parts := []string{m.styles.Status.Render(StatusLine(m.snap, m.interval()))}
	if m.sortBy != SortByCPU {
		parts = append(parts, m.styles.Status.Render("Sort: "+m.sortBy.String()))
	}
	if m.snap != nil && m.snap.Partial {
		parts = append(parts, m.styles.Status.Render("partial"))
	}
	if m.lastErr != nil {
		parts = append(parts, m.styles.StatusErr.Render("✗ "+errors.OneLine(m.lastErr)))
	}
	if n := m.currentNotice(); n != "" {
		parts = append(parts, m.styles.Notice.Render(n))
	}
	return m.clip(strings.Join(parts, m.styles.Status.Render(" | ")), m.width)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) interval() time.Duration {
	if m.sched != nil {
		return m.sched.Interval()
	}
	if m.snap != nil {
		return m.snap.Interval
	}
	return m.settings.UI.Interval()
}

// clip cuts s to width cells, keeping ANSI sequences intact.
func (m Model) clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
