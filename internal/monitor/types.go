package monitor

import (
	"time"

	"github.com/rileyhilliard/sysmon/internal/hostinfo"
	"github.com/rileyhilliard/sysmon/internal/procs"
	"github.com/rileyhilliard/sysmon/internal/sampler"
)

// Snapshot is everything one tick measured. It is built once and never
// modified afterwards, so sinks may keep it as long as they like.
type Snapshot struct {
	// Seq increases by one per successful tick, starting at 1.
	Seq      uint64        `json:"seq"`
	TakenAt  time.Time     `json:"taken_at"`
	Interval time.Duration `json:"interval"`

	CPU    sampler.CPUSample    `json:"cpu"`
	Memory sampler.MemorySample `json:"memory"`
	Swap   sampler.SwapSample   `json:"swap"`
	Disk   sampler.DiskSample   `json:"disk"`

	// Processes is ranked by CPU descending.
	Processes []procs.Row `json:"processes"`
	// ProcessCount is every process read this tick, including those cut by
	// the row limit.
	ProcessCount int `json:"process_count"`
	// Partial is set when enumeration hit its deadline.
	Partial bool `json:"partial"`

	Host hostinfo.Info `json:"host"`
}

// Top returns the busiest process, if any.
func (s *Snapshot) Top() (procs.Row, bool) {
	if s == nil || len(s.Processes) == 0 {
		return procs.Row{}, false
	}
	return s.Processes[0], true
}
