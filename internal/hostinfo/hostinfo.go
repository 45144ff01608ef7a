// Package hostinfo resolves the identity lines shown above the dashboard:
// hostname, OS, CPU model, GPUs and uptime. Lookups never fail; fields that
// cannot be read fall back to "Unknown" or an empty list.
package hostinfo

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/util"
)

const unknown = "Unknown"

// Info is a copy of the host identity. Uptime is current as of the call
// that produced it.
type Info struct {
	Hostname string        `json:"hostname"`
	OS       string        `json:"os"`
	Kernel   string        `json:"kernel"`
	CPUModel string        `json:"cpu_model"`
	GPUs     []string      `json:"gpus"`
	Runtime  string        `json:"runtime"`
	BootTime time.Time     `json:"boot_time"`
	Uptime   time.Duration `json:"uptime"`
}

// Lines renders the header block: Host, Uptime, OS, CPU, one line per GPU
// (or a placeholder) and the runtime version.
func (i Info) Lines() []string {
	lines := []string{
		"Host: " + i.Hostname,
		"Uptime: " + FormatUptime(i.Uptime),
		"OS: " + i.OS,
		"CPU: " + i.CPUModel,
	}
	if len(i.GPUs) == 0 {
		lines = append(lines, "GPU: (none detected)")
	}
	for n, g := range i.GPUs {
		lines = append(lines, fmt.Sprintf("GPU%d: %s", n+1, g))
	}
	return append(lines, i.Runtime)
}

// FormatUptime renders d as "H:MM:SS", prefixed with "N day(s) " once it
// reaches a day.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	rest := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, rest%3600/60, rest%60)
	if days == 0 {
		return clock
	}
	return fmt.Sprintf("%d %s %s", days, util.Pluralize(int(days), "day", "days"), clock)
}

// Source reads the raw identity facts.
type Source interface {
	Host(ctx context.Context) (*host.InfoStat, error)
	CPUModel(ctx context.Context) (string, error)
	GPUs(ctx context.Context) ([]string, error)
}

// Resolver caches the static identity fields after the first lookup and
// recomputes uptime on every call.
type Resolver struct {
	src Source
	log logger.Logger
	now func() time.Time

	mu     sync.Mutex
	static *Info
}

// NewResolver creates a Resolver over src.
func NewResolver(src Source, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Noop()
	}
	return &Resolver{src: src, log: log, now: time.Now}
}

// Info returns the host identity.
func (r *Resolver) Info(ctx context.Context) Info {
	r.mu.Lock()
	if r.static == nil {
		s := r.load(ctx)
		r.static = &s
	}
	info := *r.static
	r.mu.Unlock()

	info.GPUs = append([]string(nil), info.GPUs...)
	if !info.BootTime.IsZero() {
		info.Uptime = r.now().Sub(info.BootTime).Truncate(time.Second)
	}
	return info
}

func (r *Resolver) load(ctx context.Context) Info {
	info := Info{
		Hostname: unknown,
		OS:       runtime.GOOS,
		Kernel:   unknown,
		CPUModel: unknown,
		Runtime:  "Go " + strings.TrimPrefix(runtime.Version(), "go"),
	}

	if h, err := r.src.Host(ctx); err != nil {
		r.log.Debug("host info unavailable: %v", err)
	} else {
		if h.Hostname != "" {
			info.Hostname = h.Hostname
		}
		info.OS = osName(h)
		if h.KernelVersion != "" {
			info.Kernel = h.KernelVersion
		}
		if h.BootTime > 0 {
			info.BootTime = time.Unix(int64(h.BootTime), 0)
		}
	}

	if model, err := r.src.CPUModel(ctx); err != nil {
		r.log.Debug("cpu model unavailable: %v", err)
	} else if model != "" {
		info.CPUModel = model
	}

	if gpus, err := r.src.GPUs(ctx); err != nil {
		r.log.Debug("gpu list unavailable: %v", err)
	} else {
		info.GPUs = gpus
	}
	return info
}

// osName prefers the distribution name and version ("ubuntu 24.04"),
// falling back to the kernel family ("linux").
func osName(h *host.InfoStat) string {
	name := strings.TrimSpace(strings.Join([]string{h.Platform, h.PlatformVersion}, " "))
	if name == "" {
		name = h.OS
	}
	if name == "" {
		return runtime.GOOS
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// HostSource reads identity through gopsutil and lspci.
type HostSource struct {
	// LSPCI runs lspci and returns its output. Nil uses the real binary.
	LSPCI func(ctx context.Context) (string, error)
}

// NewHostSource returns the default Source.
func NewHostSource() *HostSource {
	return &HostSource{LSPCI: runLSPCI}
}

func (s *HostSource) Host(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

func (s *HostSource) CPUModel(ctx context.Context) (string, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", nil
	}
	return strings.TrimSpace(infos[0].ModelName), nil
}

func (s *HostSource) GPUs(ctx context.Context) ([]string, error) {
	run := s.LSPCI
	if run == nil {
		run = runLSPCI
	}
	out, err := run(ctx)
	if err != nil {
		return nil, err
	}
	return ParseLSPCI(out), nil
}
