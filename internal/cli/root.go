package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile    string
	limitFlag  int
	dashboardF DashboardFlags
)

var rootCmd = &cobra.Command{
	Use:   "sysmon",
	Short: "Live CPU, memory, disk and process dashboard",
	Long: `sysmon samples this machine on a fixed interval and shows CPU (total and
per core), memory, swap, root disk usage and the busiest processes.

Keys in the dashboard:
  + / -     slower / faster refresh
  1-4       interval presets (0.5s, 1s, 2s, 5s)
  t         cycle theme (auto, dark, light)
  s         cycle sort column
  y         copy the selected process
  ctrl+s    save settings
  ?         all shortcuts
  q         quit (settings are saved)

Examples:
  sysmon
  sysmon --interval 2s --theme dark
  sysmon --plain | tee metrics.log
  sysmon snapshot --json`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context(), dashboardF)
	},
}

// Execute runs the root command with a context that is cancelled on
// SIGINT or SIGTERM. It exits the process with status 1 on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	if MachineMode() {
		_ = WriteJSONFromError(os.Stdout, err)
	} else {
		fmt.Fprint(os.Stderr, errorText(err))
	}
	os.Exit(1)
}

// errorText makes sure plain errors end with a newline like structured ones.
func errorText(err error) string {
	msg := err.Error()
	if msg == "" || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	return msg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default ~/.config/sysmon/config.yaml)")
	rootCmd.PersistentFlags().IntVar(&limitFlag, "limit", 0, "number of process rows to keep (default from settings)")
	AddDashboardFlags(rootCmd, &dashboardF)

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}
