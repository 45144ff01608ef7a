package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/theme"
)

// DashboardFlags holds the per-run overrides for the live dashboard.
type DashboardFlags struct {
	Interval string
	Theme    string
	Plain    bool
}

// AddDashboardFlags registers --interval, --theme and --plain on a command.
func AddDashboardFlags(cmd *cobra.Command, flags *DashboardFlags) {
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "refresh interval (e.g. 500ms, 2s, or milliseconds)")
	cmd.Flags().StringVar(&flags.Theme, "theme", "", "color theme: auto, dark or light")
	cmd.Flags().BoolVar(&flags.Plain, "plain", false, "print one line per tick instead of the dashboard")
}

// ParseInterval parses an interval flag. A bare integer is milliseconds;
// anything else must be a Go duration. The result is clamped to the allowed
// range. Returns zero duration if the flag is empty.
func ParseInterval(flag string) (time.Duration, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return 0, nil
	}

	var d time.Duration
	if ms, err := strconv.Atoi(flag); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else {
		parsed, perr := time.ParseDuration(flag)
		if perr != nil {
			return 0, errors.WrapWithCode(perr, errors.ErrConfig,
				fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
				"Try something like 500ms, 2s, or 1500.")
		}
		d = parsed
	}

	if d <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval must be positive, got '%s'", flag),
			fmt.Sprintf("Pick a value between %dms and %ds.", config.MinIntervalMS, config.MaxIntervalMS/1000))
	}
	return config.ClampInterval(d), nil
}

// ParseTheme parses a theme flag. Returns "" if the flag is empty.
func ParseTheme(flag string) (theme.Mode, error) {
	flag = strings.ToLower(strings.TrimSpace(flag))
	if flag == "" {
		return "", nil
	}
	mode := theme.Mode(flag)
	if !mode.Valid() {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown theme '%s'", flag),
			"Use auto, dark or light.")
	}
	return mode, nil
}

// applyOverrides copies the command-line overrides onto settings. Only
// flags that were actually given change anything.
func applyOverrides(settings *config.Settings, flags DashboardFlags, limit int) error {
	interval, err := ParseInterval(flags.Interval)
	if err != nil {
		return err
	}
	if interval > 0 {
		settings.UI.UpdateIntervalMS = int(interval / time.Millisecond)
	}

	mode, err := ParseTheme(flags.Theme)
	if err != nil {
		return err
	}
	if mode != "" {
		settings.UI.ThemeMode = string(mode)
	}

	if limit < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--limit must be positive, got %d", limit),
			"Leave it out to use the value from the settings file.")
	}
	if limit > 0 {
		settings.Sampler.ProcessLimit = limit
	}
	return nil
}
