// Package testing provides test doubles for the procs package.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/rileyhilliard/sysmon/internal/procs"
)

// ErrVanished is what gopsutil returns for a process that no longer exists.
var ErrVanished = process.ErrorProcessNotRunning

// FakeProcess configures one fake process. Setting an *Err field makes the
// matching Handle method fail.
type FakeProcess struct {
	PID     int32
	Created int64
	User    string
	CPU     []float64 // successive CPUPercent results; the last one repeats
	RSS     uint64
	VMS     uint64
	Cmdline string
	Name    string

	OpenErr    error
	CreateErr  error
	UserErr    error
	CPUErr     error
	MemErr     error
	CmdlineErr error
	NameErr    error

	// Delay is slept inside Open to simulate slow /proc reads.
	Delay time.Duration
	// Hang makes Open block until its context is done.
	Hang bool
}

// FakeSource serves a configurable process list.
type FakeSource struct {
	mu       sync.Mutex
	procs    []*FakeProcess
	MemTotal uint64
	PIDsErr  error
	MemErr   error

	// Tracking for assertions
	Opens         map[int32]int
	UsernameCalls int
	cpuCalls      map[*fakeHandle]int
}

// NewFakeSource creates a source with 1000 bytes of total memory.
func NewFakeSource(procs ...*FakeProcess) *FakeSource {
	return &FakeSource{
		procs:    procs,
		MemTotal: 1000,
		Opens:    make(map[int32]int),
		cpuCalls: make(map[*fakeHandle]int),
	}
}

// Set replaces the process list.
func (f *FakeSource) Set(procs ...*FakeProcess) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = procs
}

func (f *FakeSource) PIDs(context.Context) ([]int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PIDsErr != nil {
		return nil, f.PIDsErr
	}
	pids := make([]int32, len(f.procs))
	for i, p := range f.procs {
		pids[i] = p.PID
	}
	return pids, nil
}

func (f *FakeSource) Open(ctx context.Context, pid int32) (procs.Handle, error) {
	f.mu.Lock()
	var found *FakeProcess
	for _, p := range f.procs {
		if p.PID == pid {
			found = p
			break
		}
	}
	f.Opens[pid]++
	f.mu.Unlock()

	if found == nil {
		return nil, ErrVanished
	}
	if found.Delay > 0 {
		time.Sleep(found.Delay)
	}
	if found.Hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if found.OpenErr != nil {
		return nil, found.OpenErr
	}
	copied := *found
	return &fakeHandle{src: f, p: &copied}, nil
}

func (f *FakeSource) TotalMemory(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MemTotal, f.MemErr
}

type fakeHandle struct {
	src *FakeSource
	p   *FakeProcess
}

func (h *fakeHandle) CreateTime(context.Context) (int64, error) {
	return h.p.Created, h.p.CreateErr
}

func (h *fakeHandle) Username(context.Context) (string, error) {
	h.src.mu.Lock()
	h.src.UsernameCalls++
	h.src.mu.Unlock()
	if h.p.UserErr != nil {
		return "", h.p.UserErr
	}
	return h.p.User, nil
}

// CPUPercent mimics gopsutil: the first call on a handle reads 0, later
// calls walk through the scripted values.
func (h *fakeHandle) CPUPercent(context.Context) (float64, error) {
	if h.p.CPUErr != nil {
		return 0, h.p.CPUErr
	}
	h.src.mu.Lock()
	n := h.src.cpuCalls[h]
	h.src.cpuCalls[h] = n + 1
	h.src.mu.Unlock()

	if n == 0 || len(h.p.CPU) == 0 {
		return 0, nil
	}
	return h.p.CPU[min(n-1, len(h.p.CPU)-1)], nil
}

func (h *fakeHandle) MemoryInfo(context.Context) (uint64, uint64, error) {
	return h.p.RSS, h.p.VMS, h.p.MemErr
}

func (h *fakeHandle) Cmdline(context.Context) (string, error) {
	return h.p.Cmdline, h.p.CmdlineErr
}

func (h *fakeHandle) Name(context.Context) (string, error) {
	return h.p.Name, h.p.NameErr
}
