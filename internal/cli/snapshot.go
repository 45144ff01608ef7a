package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sysmon/internal/hostinfo"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/procs"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/rileyhilliard/sysmon/internal/units"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// defaultSnapshotTop is how many process rows the text output prints.
const defaultSnapshotTop = 10

var (
	snapshotJSON bool
	snapshotTop  int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Take one reading and print it",
	Long: `Take a single reading of CPU, memory, swap, disk and processes and print it.

The CPU baseline is taken first and the reading follows a short warm-up, so
CPU percentages reflect real activity rather than zeros.

Examples:
  sysmon snapshot
  sysmon snapshot --top 25
  sysmon snapshot --json | jq '.data.processes[0]'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		machineMode = snapshotJSON
		return snapshotCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "output the snapshot as JSON")
	snapshotCmd.Flags().IntVar(&snapshotTop, "top", defaultSnapshotTop, "process rows to print (text output only)")
}

func snapshotCommand(ctx context.Context, out io.Writer) error {
	log := consoleLogger(os.Stderr)

	settings, _, err := loadSettings(cfgFile, DashboardFlags{}, limitFlag, log)
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx, settings, log)
	if err != nil {
		return err
	}

	snap, err := takeSnapshot(ctx, p.scheduler(monitor.Discard), monitor.DefaultWarmup)
	if err != nil {
		return err
	}

	if snapshotJSON {
		return WriteJSONSuccess(out, snap)
	}
	_, err = io.WriteString(out, renderSnapshot(snap, snapshotTop))
	return err
}

// takeSnapshot primes the baselines, waits warmup and runs a single tick.
func takeSnapshot(ctx context.Context, sched *monitor.Scheduler, warmup time.Duration) (*monitor.Snapshot, error) {
	sched.Prime(ctx)

	timer := time.NewTimer(warmup)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return sched.Tick(ctx)
}

var snapshotColumns = []ui.TableColumn{
	{Title: "PID", Width: 7},
	{Title: "USER", Width: 10},
	{Title: "%CPU", Width: 6},
	{Title: "%MEM", Width: 6},
	{Title: "RES", Width: 8},
	{Title: "CMD", Width: 48},
}

// renderSnapshot is the human-readable form: host identity, usage lines
// and the top processes.
func renderSnapshot(snap *monitor.Snapshot, top int) string {
	var b strings.Builder

	b.WriteString(ui.RenderKeyValues(hostItems(snap.Host)))
	b.WriteString("\n")

	cores := len(snap.CPU.PerCore)
	processes := humanize.Comma(int64(snap.ProcessCount))
	if snap.Partial {
		processes += " (partial)"
	}
	b.WriteString(ui.RenderKeyValues([]ui.KeyValue{
		{Key: "CPU", Value: fmt.Sprintf("%s across %d %s", units.Percent(snap.CPU.Total),
			cores, util.Pluralize(cores, "core", "cores"))},
		{Key: "RAM", Value: units.Usage(snap.Memory.Used, snap.Memory.Total, snap.Memory.Percent)},
		{Key: "SWAP", Value: units.Usage(snap.Swap.Used, snap.Swap.Total, snap.Swap.Percent)},
		{Key: "Disk " + snap.Disk.Path, Value: units.Usage(snap.Disk.Used, snap.Disk.Total, snap.Disk.Percent)},
		{Key: "Processes", Value: processes},
	}))

	rows := snap.Processes
	if top >= 0 && len(rows) > top {
		rows = rows[:top]
	}
	if len(rows) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(ui.RenderSimpleTable(snapshotColumns, snapshotRows(rows)))
	b.WriteString("\n")
	return b.String()
}

func hostItems(info hostinfo.Info) []ui.KeyValue {
	items := []ui.KeyValue{
		{Key: "Host", Value: info.Hostname},
		{Key: "Uptime", Value: hostinfo.FormatUptime(info.Uptime)},
		{Key: "OS", Value: info.OS},
		{Key: "CPU model", Value: info.CPUModel},
	}
	if len(info.GPUs) == 0 {
		items = append(items, ui.KeyValue{Key: "GPU", Value: "(none detected)"})
	}
	for i, g := range info.GPUs {
		items = append(items, ui.KeyValue{Key: fmt.Sprintf("GPU%d", i+1), Value: g})
	}
	return append(items, ui.KeyValue{Key: "Runtime", Value: info.Runtime})
}

func snapshotRows(rows []procs.Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.Itoa(int(r.PID)),
			r.User,
			strconv.FormatFloat(r.CPUPercent, 'f', 1, 64),
			strconv.FormatFloat(r.MemPercent, 'f', 1, 64),
			units.BytesToHuman(r.ResidentBytes),
			r.Command,
		}
	}
	return out
}
