package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/theme"
)

// dashboardCommand runs the live dashboard until the user quits or ctx is
// cancelled. Without a terminal it falls back to plain output.
func dashboardCommand(ctx context.Context, flags DashboardFlags) error {
	settings, path, err := loadSettings(cfgFile, flags, limitFlag, consoleLogger(os.Stderr))
	if err != nil {
		return err
	}

	fd := int(os.Stdout.Fd())
	if flags.Plain || !term.IsTerminal(fd) {
		return runPlain(ctx, settings, plainWidth(fd))
	}
	return runDashboard(ctx, settings, path)
}

// plainWidth is the terminal width when stdout is a terminal, else zero
// (no clipping, e.g. when piped to a file).
func plainWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// runPlain writes one line per tick to stdout until ctx is cancelled.
func runPlain(ctx context.Context, settings *config.Settings, width int) error {
	log := consoleLogger(os.Stderr)

	p, err := newPipeline(ctx, settings, log)
	if err != nil {
		return err
	}

	sched := p.scheduler(monitor.NewPlainSink(os.Stdout, os.Stderr, width))
	sched.Run(ctx)
	return nil
}

// runDashboard owns the terminal. The scheduler runs on its own goroutine
// and reaches the program through a ProgramSink; it is stopped and drained
// before returning so no tick outlives the program.
func runDashboard(ctx context.Context, settings *config.Settings, path string) error {
	logPath := logger.DefaultLogFile()
	log, flush, err := logger.NewFile(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: logging disabled: %v\n", err)
		log, flush = logger.Noop(), func() {}
	}
	defer flush()

	p, err := newPipeline(ctx, settings, log)
	if err != nil {
		return err
	}

	sink := monitor.NewProgramSink(nil)
	sched := p.scheduler(sink)

	model := monitor.NewModel(monitor.ModelConfig{
		Scheduler:    sched,
		Settings:     settings,
		SettingsPath: path,
		Logger:       logger.With(log, "dashboard"),
		Detectors:    theme.DefaultDetectors(),
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	sink.Attach(program)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(runCtx)
	}()

	_, err = program.Run()
	cancel()
	<-done

	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Dashboard stopped unexpectedly",
			"Try 'sysmon --plain', or check "+logPath)
	}
	log.Info("dashboard closed")
	return nil
}
