package procs

import (
	"context"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Handle reads attributes of one process. CPUPercent measures since the
// previous CPUPercent call on the same Handle and returns 0 the first time.
type Handle interface {
	CreateTime(ctx context.Context) (int64, error)
	Username(ctx context.Context) (string, error)
	CPUPercent(ctx context.Context) (float64, error)
	MemoryInfo(ctx context.Context) (rss, vms uint64, err error)
	Cmdline(ctx context.Context) (string, error)
	Name(ctx context.Context) (string, error)
}

// Source enumerates processes.
type Source interface {
	PIDs(ctx context.Context) ([]int32, error)
	Open(ctx context.Context, pid int32) (Handle, error)
	// TotalMemory is the denominator for per-process memory percent.
	TotalMemory(ctx context.Context) (uint64, error)
}

// HostSource reads local processes through gopsutil.
type HostSource struct{}

// NewHostSource returns the gopsutil-backed Source.
func NewHostSource() HostSource {
	return HostSource{}
}

func (HostSource) PIDs(ctx context.Context) ([]int32, error) {
	return process.PidsWithContext(ctx)
}

func (HostSource) Open(ctx context.Context, pid int32) (Handle, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, err
	}
	return &hostHandle{p: p}, nil
}

func (HostSource) TotalMemory(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

type hostHandle struct {
	p *process.Process
}

func (h *hostHandle) CreateTime(ctx context.Context) (int64, error) {
	return h.p.CreateTimeWithContext(ctx)
}

func (h *hostHandle) Username(ctx context.Context) (string, error) {
	return h.p.UsernameWithContext(ctx)
}

func (h *hostHandle) CPUPercent(ctx context.Context) (float64, error) {
	return h.p.PercentWithContext(ctx, 0)
}

func (h *hostHandle) MemoryInfo(ctx context.Context) (uint64, uint64, error) {
	mi, err := h.p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	return mi.RSS, mi.VMS, nil
}

func (h *hostHandle) Cmdline(ctx context.Context) (string, error) {
	return h.p.CmdlineWithContext(ctx)
}

func (h *hostHandle) Name(ctx context.Context) (string, error) {
	return h.p.NameWithContext(ctx)
}
