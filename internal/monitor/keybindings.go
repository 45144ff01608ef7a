package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/procs"
	"github.com/rileyhilliard/sysmon/internal/theme"
	"github.com/rileyhilliard/sysmon/internal/units"
)

// SortColumn is the process table column the view is ordered by. Sorting
// happens on a copy of the snapshot rows; the snapshot keeps its CPU order.
type SortColumn int

const (
	SortByCPU SortColumn = iota
	SortByMem
	SortByPID
	SortByCommand
)

// String returns the column header the sort applies to.
func (s SortColumn) String() string {
	switch s {
	case SortByMem:
		return "%MEM"
	case SortByPID:
		return "PID"
	case SortByCommand:
		return "CMD"
	default:
		return "%CPU"
	}
}

// Next cycles to the next sort column.
func (s SortColumn) Next() SortColumn {
	return SortColumn((int(s) + 1) % 4)
}

// Apply returns rows ordered by s. Ties keep their incoming order.
func (s SortColumn) Apply(rows []procs.Row) []procs.Row {
	out := make([]procs.Row, len(rows))
	copy(out, rows)

	var less func(a, b procs.Row) bool
	switch s {
	case SortByMem:
		less = func(a, b procs.Row) bool { return a.MemPercent > b.MemPercent }
	case SortByPID:
		less = func(a, b procs.Row) bool { return a.PID < b.PID }
	case SortByCommand:
		less = func(a, b procs.Row) bool { return strings.ToLower(a.Command) < strings.ToLower(b.Command) }
	default:
		less = func(a, b procs.Row) bool { return a.CPUPercent > b.CPUPercent }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// keyMap lists every dashboard binding. Table navigation keys belong to the
// table itself and are not repeated here.
type keyMap struct {
	Quit    key.Binding
	Slower  key.Binding
	Faster  key.Binding
	Presets []key.Binding
	Theme   key.Binding
	Sort    key.Binding
	Copy    key.Binding
	Save    key.Binding
	Help    key.Binding
	Close   key.Binding
}

func newKeyMap() keyMap {
	km := keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Slower: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "slower"),
		),
		Faster: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "faster"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy row"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save settings"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
	for i, d := range config.IntervalPresets {
		n := fmt.Sprint(i + 1)
		km.Presets = append(km.Presets, key.NewBinding(
			key.WithKeys(n),
			key.WithHelp(n, "interval "+units.Interval(d)),
		))
	}
	return km
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Slower, k.Faster, k.Theme, k.Sort, k.Help}
}

// FullHelp is the help overlay, grouped into columns.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Save, k.Help, k.Close},
		append([]key.Binding{k.Slower, k.Faster}, k.Presets...),
		{k.Theme, k.Sort, k.Copy},
	}
}

// HandleKeyMsg processes keyboard input. It reports false for keys the
// dashboard does not own so they can go to the table.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key.Matches(msg, m.keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if err := m.saveSettings(); err != nil {
			m.log.Warn("save settings on exit: %s", errors.OneLine(err))
		}
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.Slower):
		m.intervalChanged(m.sched.IncreaseInterval())
		return true, nil

	case key.Matches(msg, m.keys.Faster):
		m.intervalChanged(m.sched.DecreaseInterval())
		return true, nil

	case key.Matches(msg, m.keys.Theme):
		m.setThemeMode(m.mode.Next())
		return true, nil

	case key.Matches(msg, m.keys.Sort):
		m.sortBy = m.sortBy.Next()
		m.refreshTable()
		m.notify("Sort: " + m.sortBy.String())
		return true, nil

	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
		return true, nil

	case key.Matches(msg, m.keys.Save):
		if err := m.saveSettings(); err != nil {
			m.fail(err)
		} else {
			m.notify("Settings saved")
		}
		return true, nil
	}

	for i, b := range m.keys.Presets {
		if key.Matches(msg, b) {
			m.intervalChanged(m.sched.SetInterval(config.IntervalPresets[i]))
			return true, nil
		}
	}

	return false, nil
}

func (m *Model) intervalChanged(d time.Duration) {
	m.settings.UI.UpdateIntervalMS = int(d / time.Millisecond)
	m.notify("Interval: " + units.Interval(d))
}

func (m *Model) setThemeMode(mode theme.Mode) {
	m.mode = mode
	m.palette = paletteFor(mode, m.autoPalette)
	m.styles = NewStyles(m.palette)
	m.table.SetStyles(m.styles.Table)
	m.settings.UI.ThemeMode = string(mode)

	label := "Theme: " + string(mode)
	if mode == theme.ModeAuto {
		label += " (" + m.palette.Name + ")"
	}
	m.notify(label)
}

func (m *Model) copySelected() {
	row, ok := m.selectedRow()
	if !ok {
		return
	}
	text := fmt.Sprintf("%d %s", row.PID, row.Command)
	if err := m.clipboard(text); err != nil {
		m.fail(errors.WrapWithCode(err, errors.ErrRender, "Copy to clipboard failed", ""))
		return
	}
	m.notify(fmt.Sprintf("Copied PID %d", row.PID))
}
