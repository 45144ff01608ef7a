package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/sysmon/internal/hostinfo"
	"github.com/rileyhilliard/sysmon/internal/procs"
	"github.com/rileyhilliard/sysmon/internal/sampler"
)

type fakeMetrics struct {
	mu       sync.Mutex
	reading  sampler.Reading
	errs     []error // consumed one per Sample call; nil entries succeed
	panicMsg string
	primed   int
	samples  int
}

func (f *fakeMetrics) Prime(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.primed++
	return nil
}

func (f *fakeMetrics) Sample(ctx context.Context) (sampler.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples++
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if err := ctx.Err(); err != nil {
		return sampler.Reading{}, err
	}
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return sampler.Reading{}, err
		}
	}
	return f.reading, nil
}

type fakeProcs struct {
	mu     sync.Mutex
	result procs.Result
	err    error
	primed int
	limits []int
}

func (f *fakeProcs) Prime(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.primed++
	return nil
}

func (f *fakeProcs) Snapshot(_ context.Context, limit int) (procs.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	return f.result, f.err
}

type fakeHost struct{ info hostinfo.Info }

func (f fakeHost) Info(context.Context) hostinfo.Info { return f.info }

// recordingSink collects everything published and signals each event.
type recordingSink struct {
	mu     sync.Mutex
	snaps  []*Snapshot
	errs   []error
	events chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{events: make(chan struct{}, 64)}
}

func (s *recordingSink) Render(snap *Snapshot) {
	s.mu.Lock()
	s.snaps = append(s.snaps, snap)
	s.mu.Unlock()
	s.events <- struct{}{}
}

func (s *recordingSink) ReportError(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
	s.events <- struct{}{}
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps), len(s.errs)
}

// wait blocks until n more events arrive or the timeout passes.
func (s *recordingSink) wait(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for i := 0; i < n; i++ {
		select {
		case <-s.events:
		case <-deadline:
			return false
		}
	}
	return true
}

func sampleReading() sampler.Reading {
	return sampler.Reading{
		CPU:    sampler.CPUSample{Total: 12.5, PerCore: []float64{10, 15, 20, 5, 0}, Primed: true},
		Memory: sampler.MemorySample{Used: 4_000_000_000, Total: 8_000_000_000, Percent: 50},
		Swap:   sampler.SwapSample{Used: 0, Total: 2 << 30, Percent: 0},
		Disk:   sampler.DiskSample{Path: "/", Used: 25 << 30, Total: 100 << 30, Percent: 25},
	}
}

func sampleRows() []procs.Row {
	started := time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)
	return []procs.Row{
		{PID: 4211, User: "dana", CPUPercent: 45, MemPercent: 3.2, VirtualBytes: 2 << 30, ResidentBytes: 300 << 20, CreatedAt: started, Command: "/usr/bin/python3 train.py"},
		{PID: 17, User: "root", CPUPercent: 8, MemPercent: 9.5, VirtualBytes: 1 << 30, ResidentBytes: 700 << 20, CreatedAt: started, Command: "postgres: writer"},
		{PID: 902, User: "dana", CPUPercent: 8, MemPercent: 0.4, VirtualBytes: 64 << 20, ResidentBytes: 12 << 20, Command: "bash"},
	}
}

func sampleSnapshot() *Snapshot {
	r := sampleReading()
	return &Snapshot{
		Seq:          1,
		TakenAt:      time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local),
		Interval:     time.Second,
		CPU:          r.CPU,
		Memory:       r.Memory,
		Swap:         r.Swap,
		Disk:         r.Disk,
		Processes:    sampleRows(),
		ProcessCount: 1234,
		Host: hostinfo.Info{
			Hostname: "atlas",
			OS:       "Ubuntu 24.04",
			CPUModel: "AMD Ryzen 9 7950X",
			Runtime:  "Go 1.24.11",
			Uptime:   100 * time.Second,
		},
	}
}
