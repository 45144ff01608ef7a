package sampler

import (
	"context"
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/units"
)

// cpuTimes is the reduced form of a cumulative CPU times reading.
type cpuTimes struct {
	total float64
	idle  float64
}

func reduce(t cpu.TimesStat) cpuTimes {
	// Guest and GuestNice are already counted inside User and Nice on Linux.
	total := t.User + t.System + t.Nice + t.Idle + t.Iowait + t.Irq + t.Softirq + t.Steal
	return cpuTimes{total: total, idle: t.Idle + t.Iowait}
}

// busyPercent is the share of non-idle time between two readings, clamped
// to [0, 100]. A non-positive total delta yields 0.
func busyPercent(prev, cur cpuTimes) float64 {
	dTotal := cur.total - prev.total
	if dTotal <= 0 {
		return 0
	}
	dIdle := cur.idle - prev.idle
	return units.ClampPercent((dTotal - dIdle) / dTotal * 100)
}

// Sampler owns the CPU baseline and reads the other host metrics.
// Methods are safe for concurrent use; concurrent CPU calls are serialized
// so the baseline always moves forward one reading at a time.
type Sampler struct {
	src      Source
	diskPath string
	cores    int

	mu        sync.Mutex
	primed    bool
	prevTotal cpuTimes
	prevCores []cpuTimes
	haveCore  []bool
}

// New creates a Sampler. The logical core count is fixed here; PerCore in
// every later CPUSample has exactly that many entries.
func New(ctx context.Context, src Source, diskPath string) (*Sampler, error) {
	if diskPath == "" {
		diskPath = "/"
	}

	cores, err := src.CPUCount(ctx)
	if err != nil || cores <= 0 {
		per, perErr := src.CPUTimes(ctx, true)
		if perErr != nil {
			return nil, errors.Sample(perErr, "CPU core count")
		}
		cores = len(per)
	}
	if cores <= 0 {
		return nil, errors.New(errors.ErrSample, "No CPU cores reported", "")
	}

	return &Sampler{
		src:       src,
		diskPath:  diskPath,
		cores:     cores,
		prevCores: make([]cpuTimes, cores),
		haveCore:  make([]bool, cores),
	}, nil
}

// Cores returns the fixed logical core count.
func (s *Sampler) Cores() int {
	return s.cores
}

// DiskPath returns the mount point reported by Disk.
func (s *Sampler) DiskPath() string {
	return s.diskPath
}

// Prime records a CPU baseline without producing a sample, so the next CPU
// call measures a real interval.
func (s *Sampler) Prime(ctx context.Context) error {
	_, err := s.CPU(ctx)
	return err
}

// CPU reads machine-wide then per-core times and returns utilization since
// the previous call. The baseline only advances when both reads succeed.
func (s *Sampler) CPU(ctx context.Context) (CPUSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals, err := s.src.CPUTimes(ctx, false)
	if err != nil {
		return CPUSample{}, errors.Sample(err, "CPU times")
	}
	if len(totals) == 0 {
		return CPUSample{}, errors.Sample(fmt.Errorf("empty result"), "CPU times")
	}
	per, err := s.src.CPUTimes(ctx, true)
	if err != nil {
		return CPUSample{}, errors.Sample(err, "per-core CPU times")
	}

	cur := reduce(totals[0])
	sample := CPUSample{PerCore: make([]float64, s.cores), Primed: s.primed}
	if s.primed {
		sample.Total = busyPercent(s.prevTotal, cur)
	}
	s.prevTotal = cur
	s.primed = true

	// Cores beyond the fixed count are ignored; missing cores read 0 and
	// keep their old baseline.
	for i := 0; i < s.cores && i < len(per); i++ {
		c := reduce(per[i])
		if s.haveCore[i] {
			sample.PerCore[i] = busyPercent(s.prevCores[i], c)
		}
		s.prevCores[i] = c
		s.haveCore[i] = true
	}

	return sample, nil
}

// Memory reads RAM usage.
func (s *Sampler) Memory(ctx context.Context) (MemorySample, error) {
	vm, err := s.src.VirtualMemory(ctx)
	if err != nil {
		return MemorySample{}, errors.Sample(err, "memory usage")
	}
	return MemorySample{
		Used:    min(vm.Used, vm.Total),
		Total:   vm.Total,
		Percent: units.ClampPercent(vm.UsedPercent),
	}, nil
}

// Swap reads swap usage.
func (s *Sampler) Swap(ctx context.Context) (SwapSample, error) {
	sw, err := s.src.SwapMemory(ctx)
	if err != nil {
		return SwapSample{}, errors.Sample(err, "swap usage")
	}
	out := SwapSample{Used: min(sw.Used, sw.Total), Total: sw.Total}
	if sw.Total > 0 {
		out.Percent = units.ClampPercent(sw.UsedPercent)
	}
	return out, nil
}

// Disk reads filesystem usage for the configured mount point.
func (s *Sampler) Disk(ctx context.Context) (DiskSample, error) {
	du, err := s.src.DiskUsage(ctx, s.diskPath)
	if err != nil {
		return DiskSample{}, errors.Sample(err, "disk usage for "+s.diskPath)
	}
	out := DiskSample{Path: s.diskPath, Used: du.Used, Total: du.Total}
	if du.Total > 0 {
		out.Percent = units.ClampPercent(float64(du.Used) / float64(du.Total) * 100)
	}
	return out, nil
}

// Sample reads CPU, memory, swap and disk in that order and stops at the
// first failure.
func (s *Sampler) Sample(ctx context.Context) (Reading, error) {
	var r Reading
	var err error

	if r.CPU, err = s.CPU(ctx); err != nil {
		return Reading{}, err
	}
	if r.Memory, err = s.Memory(ctx); err != nil {
		return Reading{}, err
	}
	if r.Swap, err = s.Swap(ctx); err != nil {
		return Reading{}, err
	}
	if r.Disk, err = s.Disk(ctx); err != nil {
		return Reading{}, err
	}
	return r, nil
}
