package units

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToHuman(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want string
	}{
		{"zero", 0, "0.0B"},
		{"bytes", 512, "512.0B"},
		{"just under a kibibyte", 1023, "1023.0B"},
		{"one kibibyte", 1024, "1.0K"},
		{"one and a half mebibytes", 1536 * 1024, "1.5M"},
		{"four gigabytes", 4_000_000_000, "3.7G"},
		{"eight gigabytes", 8_000_000_000, "7.5G"},
		{"one tebibyte", 1 << 40, "1.0T"},
		{"one pebibyte", 1 << 50, "1.0P"},
		{"beyond the ceiling stays in P", 1 << 62, "4096.0P"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BytesToHuman(tt.in))
		})
	}
}

func TestBytesToHuman_RoundTrip(t *testing.T) {
	scale := map[string]float64{"B": 1, "K": 1 << 10, "M": 1 << 20, "G": 1 << 30, "T": 1 << 40, "P": 1 << 50}

	for _, n := range []uint64{1, 999, 4096, 123_456_789, 9_876_543_210, 3 << 41, 7 << 52} {
		out := BytesToHuman(n)
		unit := out[len(out)-1:]
		mult, ok := scale[unit]
		require.True(t, ok, "unexpected unit in %q", out)

		value, err := strconv.ParseFloat(strings.TrimSuffix(out, unit), 64)
		require.NoError(t, err)

		// One-decimal rounding error is at most 0.05 units.
		assert.InDelta(t, float64(n), value*mult, 0.05*mult+0.5, "n=%d out=%s", n, out)
	}
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		pct  float64
		want Severity
	}{
		{0, Normal},
		{42, Normal},
		{49.99, Normal},
		{50, Warning},
		{74.9, Warning},
		{75, Critical},
		{90, Critical},
		{100, Critical},
	}

	for _, tt := range tests {
		t.Run(strconv.FormatFloat(tt.pct, 'f', -1, 64), func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityOf(tt.pct))
		})
	}
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "critical", Critical.String())
}

func TestUsage(t *testing.T) {
	assert.Equal(t, "3.7G/7.5G (50.0%)", Usage(4_000_000_000, 8_000_000_000, 50))
	assert.Equal(t, "0.0B/0.0B (0.0%)", Usage(0, 0, 0))
}

func TestInterval(t *testing.T) {
	assert.Equal(t, "0.5s", Interval(500*time.Millisecond))
	assert.Equal(t, "1.5s", Interval(1500*time.Millisecond))
	assert.Equal(t, "10.0s", Interval(10*time.Second))
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-3))
	assert.Equal(t, 0.0, ClampPercent(math.NaN()))
	assert.Equal(t, 55.5, ClampPercent(55.5))
	assert.Equal(t, 100.0, ClampPercent(100.0001))
}
