package monitor

import (
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/procs"
	"github.com/rileyhilliard/sysmon/internal/theme"
	"github.com/rileyhilliard/sysmon/internal/units"
)

// Default terminal size used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 40
)

// noticeTTL is how long a status message stays in the status bar.
const noticeTTL = 3 * time.Second

// ModelConfig holds what the dashboard needs from the rest of the program.
type ModelConfig struct {
	// Scheduler receives interval changes.
	Scheduler IntervalController
	// Settings is updated in place as the user changes interval or theme.
	Settings *config.Settings
	// SettingsPath is where settings are saved. Empty disables saving.
	SettingsPath string
	Logger       logger.Logger
	// Detectors resolve the auto theme. They run once, in NewModel, before
	// the program owns the terminal. Nil uses theme.DefaultDetectors.
	Detectors []theme.Detector
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	sched        IntervalController
	settings     *config.Settings
	settingsPath string
	log          logger.Logger

	mode        theme.Mode
	autoPalette theme.Palette
	palette     theme.Palette
	styles      Styles

	keys  keyMap
	help  help.Model
	table table.Model

	snap     *Snapshot
	lastErr  error
	notice   string
	noticeAt time.Time
	sortBy   SortColumn
	rows     []procs.Row // snap.Processes in display order

	width    int
	height   int
	showHelp bool
	quitting bool

	save      func(path string, cfg *config.Settings) error
	clipboard func(text string) error
	now       func() time.Time
}

// NewModel creates the dashboard model.
func NewModel(cfg ModelConfig) Model {
	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Noop()
	}
	detectors := cfg.Detectors
	if detectors == nil {
		detectors = theme.DefaultDetectors()
	}

	mode := theme.Mode(settings.UI.ThemeMode)
	if !mode.Valid() {
		mode = theme.ModeAuto
	}
	auto := theme.Resolve(theme.ModeAuto, detectors...)
	palette := paletteFor(mode, auto)
	styles := NewStyles(palette)

	t := table.New(
		table.WithColumns(tableColumns(defaultWidth)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(styles.Table)

	return Model{
		sched:        cfg.Scheduler,
		settings:     settings,
		settingsPath: cfg.SettingsPath,
		log:          log,
		mode:         mode,
		autoPalette:  auto,
		palette:      palette,
		styles:       styles,
		keys:         newKeyMap(),
		help:         help.New(),
		table:        t,
		width:        defaultWidth,
		height:       defaultHeight,
		save:         config.Save,
		clipboard:    clipboard.WriteAll,
		now:          time.Now,
	}
}

// paletteFor maps mode to a palette without consulting any detector.
func paletteFor(mode theme.Mode, auto theme.Palette) theme.Palette {
	if mode == theme.ModeAuto {
		return auto
	}
	return theme.Resolve(mode)
}

// Init has nothing to start; snapshots arrive from the scheduler.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layoutTable()

	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.lastErr = nil
		m.refreshTable()
		m.layoutTable()

	case ErrorMsg:
		m.lastErr = msg.Err
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

func (m *Model) notify(text string) {
	m.notice = text
	m.noticeAt = m.now()
}

func (m *Model) fail(err error) {
	m.notice = "✗ " + errors.OneLine(err)
	m.noticeAt = m.now()
}

// currentNotice returns the status message if it has not expired.
func (m Model) currentNotice() string {
	if m.notice == "" || m.now().Sub(m.noticeAt) > noticeTTL {
		return ""
	}
	return m.notice
}

// saveSettings writes the current settings to disk.
func (m *Model) saveSettings() error {
	if m.settingsPath == "" {
		return nil
	}
	if m.sched != nil {
		m.settings.UI.UpdateIntervalMS = int(m.sched.Interval() / time.Millisecond)
	}
	m.settings.UI.ThemeMode = string(m.mode)
	return m.save(m.settingsPath, m.settings)
}

// refreshTable rebuilds the table rows from the current snapshot, keeping
// the cursor on the same PID when it is still listed.
func (m *Model) refreshTable() {
	var selected int32 = -1
	if row, ok := m.selectedRow(); ok {
		selected = row.PID
	}

	if m.snap == nil {
		m.rows = nil
	} else {
		m.rows = m.sortBy.Apply(m.snap.Processes)
	}
	m.table.SetRows(lo.Map(m.rows, func(r procs.Row, _ int) table.Row {
		return processRow(r)
	}))

	if _, idx, ok := lo.FindIndexOf(m.rows, func(r procs.Row) bool { return r.PID == selected }); ok {
		m.table.SetCursor(idx)
	} else if m.table.Cursor() >= len(m.rows) {
		m.table.SetCursor(max(len(m.rows)-1, 0))
	}
}

func (m Model) selectedRow() (procs.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return procs.Row{}, false
	}
	return m.rows[i], true
}

func processRow(r procs.Row) table.Row {
	started := "-"
	if !r.CreatedAt.IsZero() {
		started = r.CreatedAt.Format("15:04:05")
	}
	return table.Row{
		strconv.Itoa(int(r.PID)),
		r.User,
		strconv.FormatFloat(r.CPUPercent, 'f', 1, 64),
		strconv.FormatFloat(r.MemPercent, 'f', 1, 64),
		units.BytesToHuman(r.VirtualBytes),
		units.BytesToHuman(r.ResidentBytes),
		started,
		r.Command,
	}
}
