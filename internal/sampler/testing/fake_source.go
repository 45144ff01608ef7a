// Package testing provides test doubles for the sampler package.
package testing

import (
	"context"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Times builds a cumulative CPU reading from busy and idle seconds.
func Times(busy, idle float64) cpu.TimesStat {
	return cpu.TimesStat{User: busy, Idle: idle}
}

// FakeSource serves scripted readings. Each CPUTimes call consumes the next
// entry of Totals or PerCore; the last entry repeats once the script runs out.
type FakeSource struct {
	mu sync.Mutex

	Cores   int
	Totals  []cpu.TimesStat
	PerCore [][]cpu.TimesStat
	Memory  mem.VirtualMemoryStat
	Swap    mem.SwapMemoryStat
	Disk    disk.UsageStat

	// Errors to return instead of a reading. Cleared by the caller.
	CountErr   error
	TotalsErr  error
	PerCoreErr error
	MemoryErr  error
	SwapErr    error
	DiskErr    error

	// Tracking for assertions
	TotalsCalls  int
	PerCoreCalls int
	DiskPaths    []string
}

// NewFakeSource returns a FakeSource reporting the given core count and
// 8 GB of RAM with half in use.
func NewFakeSource(cores int) *FakeSource {
	return &FakeSource{
		Cores:  cores,
		Memory: mem.VirtualMemoryStat{Total: 8_000_000_000, Used: 4_000_000_000, UsedPercent: 50},
		Disk:   disk.UsageStat{Path: "/", Total: 100, Used: 25},
	}
}

// PushCPU appends one scripted reading: the machine total and each core.
func (f *FakeSource) PushCPU(total cpu.TimesStat, perCore ...cpu.TimesStat) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Totals = append(f.Totals, total)
	f.PerCore = append(f.PerCore, perCore)
	return f
}

// SetErr is a locked setter for the error fields.
func (f *FakeSource) SetErr(apply func(f *FakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	apply(f)
}

func (f *FakeSource) CPUTimes(_ context.Context, perCPU bool) ([]cpu.TimesStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if perCPU {
		if f.PerCoreErr != nil {
			return nil, f.PerCoreErr
		}
		i := min(f.PerCoreCalls, len(f.PerCore)-1)
		f.PerCoreCalls++
		if i < 0 {
			return nil, nil
		}
		return append([]cpu.TimesStat(nil), f.PerCore[i]...), nil
	}

	if f.TotalsErr != nil {
		return nil, f.TotalsErr
	}
	i := min(f.TotalsCalls, len(f.Totals)-1)
	f.TotalsCalls++
	if i < 0 {
		return nil, nil
	}
	return []cpu.TimesStat{f.Totals[i]}, nil
}

func (f *FakeSource) CPUCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Cores, f.CountErr
}

func (f *FakeSource) VirtualMemory(context.Context) (*mem.VirtualMemoryStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MemoryErr != nil {
		return nil, f.MemoryErr
	}
	m := f.Memory
	return &m, nil
}

func (f *FakeSource) SwapMemory(context.Context) (*mem.SwapMemoryStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SwapErr != nil {
		return nil, f.SwapErr
	}
	s := f.Swap
	return &s, nil
}

func (f *FakeSource) DiskUsage(_ context.Context, path string) (*disk.UsageStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DiskPaths = append(f.DiskPaths, path)
	if f.DiskErr != nil {
		return nil, f.DiskErr
	}
	d := f.Disk
	return &d, nil
}
