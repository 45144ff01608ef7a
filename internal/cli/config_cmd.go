package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/theme"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

var configResetYes bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change dashboard settings",
	Long: `Show or change the settings the dashboard starts with.

The dashboard also writes the current interval and theme back to this file
when you press ctrl+s and when you quit.

Examples:
  sysmon config show
  sysmon config set ui.update_interval_ms 2000
  sysmon config edit`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Resolve(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Resolve(cfgFile)
		if err != nil {
			return err
		}
		return configShow(cmd.OutOrStdout(), path, time.Now())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting",
	Long: `Change one setting in the file, keeping its comments and layout.

Keys:
  ` + strings.Join(config.Keys, "\n  "),
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return config.Keys, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Resolve(cfgFile)
		if err != nil {
			return err
		}
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1])))
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the settings file with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Resolve(cfgFile)
		if err != nil {
			return err
		}

		if !configResetYes && term.IsTerminal(int(os.Stdin.Fd())) {
			var confirm bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Reset all settings to their defaults?").
						Description(path).
						Value(&confirm),
				),
			)
			if err := form.Run(); err != nil || !confirm {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := config.Save(path, config.DefaultSettings()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Settings reset: "+path))
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings in an interactive form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Resolve(cfgFile)
		if err != nil {
			return err
		}
		return configEdit(cmd.OutOrStdout(), path)
	},
}

func init() {
	configResetCmd.Flags().BoolVarP(&configResetYes, "yes", "y", false, "skip the confirmation prompt")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configEditCmd)
}

// configShow prints the settings the dashboard would start with, followed
// by where they came from.
func configShow(w io.Writer, path string, now time.Time) error {
	settings, problem := config.LoadOrDefault(path)

	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode settings", "")
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	fmt.Fprintln(w)
	info, statErr := os.Stat(path)
	switch {
	case statErr != nil:
		fmt.Fprintln(w, ui.Muted(path+" (not written yet, showing defaults)"))
	default:
		fmt.Fprintln(w, ui.Muted(fmt.Sprintf("%s (saved %s)", path, humanize.RelTime(info.ModTime(), now, "ago", "from now"))))
	}
	if problem != nil {
		fmt.Fprintln(w, ui.Warning(errors.OneLine(problem)))
	}
	return nil
}

// configEdit runs the settings form and saves the result.
func configEdit(w io.Writer, path string) error {
	settings, problem := config.LoadOrDefault(path)
	if problem != nil {
		fmt.Fprintln(w, ui.Warning(errors.OneLine(problem)))
	}

	values := newSettingsForm(settings)
	if err := values.form().Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Use 'sysmon config set' when no terminal is available")
	}

	if err := values.apply(settings); err != nil {
		return err
	}
	if err := config.Validate(settings); err != nil {
		return err
	}
	if err := config.Save(path, settings); err != nil {
		return err
	}
	fmt.Fprintln(w, ui.Success("Settings saved: "+path))
	return nil
}

// settingsForm holds the form's string-typed inputs.
type settingsForm struct {
	interval string
	theme    string
	limit    string
	deadline string
	diskPath string
}

func newSettingsForm(s *config.Settings) *settingsForm {
	return &settingsForm{
		interval: strconv.Itoa(s.UI.UpdateIntervalMS),
		theme:    s.UI.ThemeMode,
		limit:    strconv.Itoa(s.Sampler.ProcessLimit),
		deadline: s.Sampler.ProcessDeadline.String(),
		diskPath: s.Sampler.DiskPath,
	}
}

func (f *settingsForm) form() *huh.Form {
	themes := lo.Map(theme.Modes, func(m theme.Mode, _ int) huh.Option[string] {
		return huh.NewOption(string(m), string(m))
	})

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Update interval (ms)").
				Description(fmt.Sprintf("%d to %d, in steps of %d from the keyboard",
					config.MinIntervalMS, config.MaxIntervalMS, config.IntervalStepMS)).
				Value(&f.interval).
				Validate(validateIntervalMS),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&f.theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Process rows").
				Value(&f.limit).
				Validate(validateLimit),
			huh.NewInput().
				Title("Process deadline").
				Description("How long one tick may spend reading processes, e.g. 2s").
				Value(&f.deadline).
				Validate(validateDeadline),
			huh.NewInput().
				Title("Disk").
				Description("Mount point whose usage is shown").
				Value(&f.diskPath).
				Validate(validateDiskPath),
		),
	)
}

// apply copies the form values onto s. Values were validated by the form,
// but apply checks again since it is also the path used in tests.
func (f *settingsForm) apply(s *config.Settings) error {
	if err := validateIntervalMS(f.interval); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid update interval", "")
	}
	if err := validateLimit(f.limit); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid process row count", "")
	}
	if err := validateDeadline(f.deadline); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid process deadline", "")
	}
	if err := validateDiskPath(f.diskPath); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid disk path", "")
	}
	mode := theme.Mode(f.theme)
	if !mode.Valid() {
		return errors.New(errors.ErrConfig, fmt.Sprintf("Unknown theme '%s'", f.theme), "Use auto, dark or light.")
	}

	s.UI.UpdateIntervalMS, _ = strconv.Atoi(strings.TrimSpace(f.interval))
	s.UI.ThemeMode = string(mode)
	s.Sampler.ProcessLimit, _ = strconv.Atoi(strings.TrimSpace(f.limit))
	s.Sampler.ProcessDeadline, _ = time.ParseDuration(strings.TrimSpace(f.deadline))
	s.Sampler.DiskPath = strings.TrimSpace(f.diskPath)
	return nil
}

func validateIntervalMS(v string) error {
	ms, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("enter a whole number of milliseconds")
	}
	if ms < config.MinIntervalMS || ms > config.MaxIntervalMS {
		return fmt.Errorf("must be between %d and %d", config.MinIntervalMS, config.MaxIntervalMS)
	}
	return nil
}

func validateLimit(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 || n > 1000 {
		return fmt.Errorf("enter a number from 1 to 1000")
	}
	return nil
}

func validateDeadline(v string) error {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("use a duration like 500ms or 2s")
	}
	if d < 50*time.Millisecond || d > 30*time.Second {
		return fmt.Errorf("must be between 50ms and 30s")
	}
	return nil
}

func validateDiskPath(v string) error {
	if !strings.HasPrefix(strings.TrimSpace(v), "/") {
		return fmt.Errorf("must be an absolute path")
	}
	return nil
}
