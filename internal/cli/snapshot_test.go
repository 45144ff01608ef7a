package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/hostinfo"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/procs"
	procstest "github.com/rileyhilliard/sysmon/internal/procs/testing"
	"github.com/rileyhilliard/sysmon/internal/sampler"
	samplertest "github.com/rileyhilliard/sysmon/internal/sampler/testing"
)

func testSnapshot() *monitor.Snapshot {
	return &monitor.Snapshot{
		Seq:      3,
		TakenAt:  time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		Interval: time.Second,
		CPU:      sampler.CPUSample{Total: 12.5, PerCore: []float64{10, 15}, Primed: true},
		Memory:   sampler.MemorySample{Used: 4_000_000_000, Total: 8_000_000_000, Percent: 50},
		Swap:     sampler.SwapSample{Total: 2 << 30},
		Disk:     sampler.DiskSample{Path: "/", Used: 25 << 30, Total: 100 << 30, Percent: 25},
		Processes: []procs.Row{
			{PID: 4211, User: "dana", CPUPercent: 45, MemPercent: 3.2, ResidentBytes: 300 << 20, Command: "/usr/bin/python3 train.py"},
			{PID: 17, User: "root", CPUPercent: 8, MemPercent: 9.5, ResidentBytes: 700 << 20, Command: "postgres: writer"},
			{PID: 902, User: "dana", CPUPercent: 1, MemPercent: 0.4, ResidentBytes: 12 << 20, Command: "bash"},
		},
		ProcessCount: 1234,
		Host: hostinfo.Info{
			Hostname: "atlas",
			OS:       "Ubuntu 24.04",
			CPUModel: "AMD Ryzen 9 7950X",
			GPUs:     []string{"NVIDIA Corporation AD102 [GeForce RTX 4090]"},
			Runtime:  "Go 1.24.11",
			Uptime:   26*time.Hour + 30*time.Second,
		},
	}
}

func TestRenderSnapshot(t *testing.T) {
	out := renderSnapshot(testSnapshot(), 10)

	for _, want := range []string{
		"atlas",
		"1 day 2:00:30",
		"Ubuntu 24.04",
		"GPU1",
		"RTX 4090",
		"12.5% across 2 cores",
		"3.7G/7.5G (50.0%)",
		"Disk /",
		"25.0G/100.0G (25.0%)",
		"1,234",
		"PID",
		"4211",
		"postgres: writer",
		"300.0M",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "partial")
}

func TestRenderSnapshot_TopLimitsRows(t *testing.T) {
	out := renderSnapshot(testSnapshot(), 1)

	assert.Contains(t, out, "4211")
	assert.NotContains(t, out, "postgres: writer")
}

func TestRenderSnapshot_NoProcessesOrGPU(t *testing.T) {
	snap := testSnapshot()
	snap.Processes = nil
	snap.Host.GPUs = nil
	snap.Partial = true

	out := renderSnapshot(snap, 10)

	assert.Contains(t, out, "(none detected)")
	assert.Contains(t, out, "1,234 (partial)")
	assert.NotContains(t, out, "PID")
}

func fakeScheduler(t *testing.T) (*monitor.Scheduler, *samplertest.FakeSource) {
	t.Helper()
	src := samplertest.NewFakeSource(2).
		PushCPU(samplertest.Times(0, 0), samplertest.Times(0, 0), samplertest.Times(0, 0)).
		PushCPU(samplertest.Times(50, 50), samplertest.Times(25, 25), samplertest.Times(75, 25))

	metrics, err := sampler.New(context.Background(), src, "/")
	require.NoError(t, err)

	ps := procstest.NewFakeSource(
		&procstest.FakeProcess{PID: 10, User: "dana", CPU: []float64{30}, Cmdline: "vim notes.md"},
		&procstest.FakeProcess{PID: 20, User: "root", CPU: []float64{60}, Cmdline: "rsync -a /data /backup"},
	)
	snapper := procs.NewSnapshotter(ps)

	return monitor.NewScheduler(metrics, snapper, nil, monitor.Discard), src
}

func TestTakeSnapshot(t *testing.T) {
	sched, src := fakeScheduler(t)

	snap, err := takeSnapshot(context.Background(), sched, time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Seq)
	assert.True(t, snap.CPU.Primed, "the baseline is taken before the tick")
	assert.InDelta(t, 50.0, snap.CPU.Total, 0.01)
	assert.Equal(t, 2, src.TotalsCalls)
	assert.Equal(t, 2, snap.ProcessCount)
	assert.Len(t, snap.Processes, 2)
	assert.Equal(t, uint64(8_000_000_000), snap.Memory.Total)
}

func TestTakeSnapshot_CancelledDuringWarmup(t *testing.T) {
	sched, _ := fakeScheduler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap, err := takeSnapshot(ctx, sched, time.Hour)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotRows(t *testing.T) {
	rows := snapshotRows(testSnapshot().Processes[:1])
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"4211", "dana", "45.0", "3.2", "300.0M", "/usr/bin/python3 train.py"}, rows[0])
	assert.Len(t, rows[0], len(snapshotColumns))
	assert.True(t, strings.HasPrefix(snapshotColumns[0].Title, "PID"))
}
