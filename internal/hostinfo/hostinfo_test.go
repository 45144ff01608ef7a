package hostinfo

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/logger"
)

type fakeSource struct {
	host     *host.InfoStat
	hostErr  error
	model    string
	modelErr error
	gpus     []string
	gpuErr   error
	calls    int
}

func (f *fakeSource) Host(context.Context) (*host.InfoStat, error) {
	f.calls++
	return f.host, f.hostErr
}

func (f *fakeSource) CPUModel(context.Context) (string, error) { return f.model, f.modelErr }
func (f *fakeSource) GPUs(context.Context) ([]string, error)   { return f.gpus, f.gpuErr }

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"zero", 0, "0:00:00"},
		{"negative clamps", -time.Minute, "0:00:00"},
		{"minutes", 5*time.Minute + 7*time.Second, "0:05:07"},
		{"hours", 13*time.Hour + 2*time.Minute, "13:02:00"},
		{"one day", 24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second, "1 day 3:04:05"},
		{"several days", 3*24*time.Hour + 59*time.Second, "3 days 0:00:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUptime(tt.in))
		})
	}
}

func TestResolver_Info(t *testing.T) {
	boot := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{
		host: &host.InfoStat{
			Hostname:        "atlas",
			OS:              "linux",
			Platform:        "ubuntu",
			PlatformVersion: "24.04",
			KernelVersion:   "6.8.0",
			BootTime:        uint64(boot.Unix()),
		},
		model: "AMD Ryzen 9 7950X",
		gpus:  []string{"NVIDIA Corporation AD102"},
	}
	r := NewResolver(src, logger.Noop())
	r.now = func() time.Time { return boot.Add(26*time.Hour + 30*time.Second) }

	info := r.Info(context.Background())

	assert.Equal(t, "atlas", info.Hostname)
	assert.Equal(t, "Ubuntu 24.04", info.OS)
	assert.Equal(t, "6.8.0", info.Kernel)
	assert.Equal(t, "AMD Ryzen 9 7950X", info.CPUModel)
	assert.Equal(t, []string{"NVIDIA Corporation AD102"}, info.GPUs)
	assert.Equal(t, 26*time.Hour+30*time.Second, info.Uptime)
	assert.Contains(t, info.Runtime, "Go ")
}

func TestResolver_CachesStaticFieldsButNotUptime(t *testing.T) {
	boot := time.Unix(1_000_000, 0)
	src := &fakeSource{host: &host.InfoStat{Hostname: "a", BootTime: uint64(boot.Unix())}}
	r := NewResolver(src, nil)

	now := boot.Add(time.Minute)
	r.now = func() time.Time { return now }
	first := r.Info(context.Background())

	now = now.Add(time.Hour)
	second := r.Info(context.Background())

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, time.Minute, first.Uptime)
	assert.Equal(t, time.Hour+time.Minute, second.Uptime)
}

func TestResolver_FailuresFallBack(t *testing.T) {
	src := &fakeSource{
		hostErr:  errors.New("no utmp"),
		modelErr: errors.New("no cpuinfo"),
		gpuErr:   errors.New("lspci: not found"),
	}
	log := logger.NewBufferLogger()
	r := NewResolver(src, log)

	info := r.Info(context.Background())

	assert.Equal(t, "Unknown", info.Hostname)
	assert.Equal(t, "Unknown", info.CPUModel)
	assert.Empty(t, info.GPUs)
	assert.Zero(t, info.Uptime)
	assert.Equal(t, 3, log.Count("debug"))
}

func TestResolver_InfoReturnsCopies(t *testing.T) {
	src := &fakeSource{host: &host.InfoStat{Hostname: "a"}, gpus: []string{"gpu0"}}
	r := NewResolver(src, nil)

	info := r.Info(context.Background())
	info.GPUs[0] = "mutated"

	assert.Equal(t, "gpu0", r.Info(context.Background()).GPUs[0])
}

func TestOSName(t *testing.T) {
	tests := []struct {
		name string
		info host.InfoStat
		want string
	}{
		{"platform and version", host.InfoStat{Platform: "ubuntu", PlatformVersion: "24.04", OS: "linux"}, "Ubuntu 24.04"},
		{"kernel family fallback", host.InfoStat{OS: "linux"}, "Linux"},
		{"multibyte first rune", host.InfoStat{Platform: "état", PlatformVersion: "1"}, "État 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := osName(&tt.info)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestInfo_Lines(t *testing.T) {
	info := Info{
		Hostname: "atlas",
		Uptime:   90 * time.Second,
		OS:       "Fedora 41",
		CPUModel: "Intel i7",
		Runtime:  "Go 1.24.11",
	}

	assert.Equal(t, []string{
		"Host: atlas",
		"Uptime: 0:01:30",
		"OS: Fedora 41",
		"CPU: Intel i7",
		"GPU: (none detected)",
		"Go 1.24.11",
	}, info.Lines())

	info.GPUs = []string{"A", "B"}
	lines := info.Lines()
	assert.Contains(t, lines, "GPU1: A")
	assert.Contains(t, lines, "GPU2: B")
	assert.NotContains(t, lines, "GPU: (none detected)")
}

func TestParseLSPCI(t *testing.T) {
	out := `00:00.0 Host bridge: Intel Corporation Xeon E3-1200 v6/7th Gen Core Processor Host Bridge/DRAM Registers (rev 08)
00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620 (rev 07)
00:14.0 USB controller: Intel Corporation Sunrise Point-LP USB 3.0 xHCI Controller (rev 21)
01:00.0 3D controller: NVIDIA Corporation GP108M [GeForce MX150] (rev a1)
`
	assert.Equal(t, []string{
		"Intel Corporation UHD Graphics 620 (rev 07)",
		"NVIDIA Corporation GP108M [GeForce MX150] (rev a1)",
	}, ParseLSPCI(out))

	assert.Empty(t, ParseLSPCI(""))
}

func TestHostSource_GPUsUsesRunner(t *testing.T) {
	s := &HostSource{LSPCI: func(context.Context) (string, error) {
		return "03:00.0 VGA compatible controller: Advanced Micro Devices, Inc. [AMD/ATI] Navi 31\n", nil
	}}

	gpus, err := s.GPUs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Advanced Micro Devices, Inc. [AMD/ATI] Navi 31"}, gpus)

	s.LSPCI = func(context.Context) (string, error) { return "", errors.New("exec: not found") }
	_, err = s.GPUs(context.Background())
	assert.Error(t, err)
}
