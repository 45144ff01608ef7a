package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/theme"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		flag    string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"1500", 1500 * time.Millisecond, false},
		{"500ms", 500 * time.Millisecond, false},
		{" 2s ", 2 * time.Second, false},
		{"100ms", 250 * time.Millisecond, false},
		{"1m", 10 * time.Second, false},
		{"0", 0, true},
		{"-1s", 0, true},
		{"fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := ParseInterval(tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		flag    string
		want    theme.Mode
		wantErr bool
	}{
		{"", "", false},
		{"dark", theme.ModeDark, false},
		{"Light", theme.ModeLight, false},
		{"auto", theme.ModeAuto, false},
		{"sepia", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := ParseTheme(tt.flag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	s := config.DefaultSettings()

	err := applyOverrides(s, DashboardFlags{Interval: "2s", Theme: "light"}, 25)
	require.NoError(t, err)

	assert.Equal(t, 2000, s.UI.UpdateIntervalMS)
	assert.Equal(t, "light", s.UI.ThemeMode)
	assert.Equal(t, 25, s.Sampler.ProcessLimit)
}

func TestApplyOverrides_NoFlagsLeavesSettings(t *testing.T) {
	s := config.DefaultSettings()
	require.NoError(t, applyOverrides(s, DashboardFlags{}, 0))
	assert.Equal(t, config.DefaultSettings(), s)
}

func TestApplyOverrides_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flags DashboardFlags
		limit int
	}{
		{"bad interval", DashboardFlags{Interval: "soon"}, 0},
		{"bad theme", DashboardFlags{Theme: "neon"}, 0},
		{"negative limit", DashboardFlags{}, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := applyOverrides(config.DefaultSettings(), tt.flags, tt.limit)
			assert.True(t, errors.IsCode(err, errors.ErrConfig), "got %v", err)
		})
	}
}
