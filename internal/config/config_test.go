package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, 10, cfg.UI.FontSize)
	assert.Equal(t, 1000, cfg.UI.UpdateIntervalMS)
	assert.Equal(t, time.Second, cfg.UI.Interval())
	assert.Equal(t, "auto", cfg.UI.ThemeMode)
	assert.Equal(t, 80, cfg.Sampler.ProcessLimit)
	assert.Equal(t, 2*time.Second, cfg.Sampler.ProcessDeadline)
	assert.Equal(t, "/", cfg.Sampler.DiskPath)
	assert.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
version: 1
ui:
  font_size: 12
  update_interval_ms: 2000
  theme_mode: light
sampler:
  process_limit: 40
  process_deadline: 500ms
  disk_path: /home
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.UI.FontSize)
	assert.Equal(t, 2*time.Second, cfg.UI.Interval())
	assert.Equal(t, "light", cfg.UI.ThemeMode)
	assert.Equal(t, 40, cfg.Sampler.ProcessLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Sampler.ProcessDeadline)
	assert.Equal(t, "/home", cfg.Sampler.DiskPath)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeSettings(t, "ui:\n  theme_mode: dark\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dark", cfg.UI.ThemeMode)
	assert.Equal(t, 1000, cfg.UI.UpdateIntervalMS)
	assert.Equal(t, 80, cfg.Sampler.ProcessLimit)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SYSMON_UI_THEME_MODE", "light")
	path := writeSettings(t, "ui:\n  font_size: 11\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.ThemeMode)
	assert.Equal(t, 11, cfg.UI.FontSize)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantMsg string
	}{
		{
			name:    "not found",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") },
			wantMsg: "Settings file not found",
		},
		{
			name:    "corrupt yaml",
			path:    func(t *testing.T) string { return writeSettings(t, "ui: [unclosed\n") },
			wantMsg: "Settings file is corrupt",
		},
		{
			name:    "wrong type",
			path:    func(t *testing.T) string { return writeSettings(t, "ui:\n  update_interval_ms: fast\n") },
			wantMsg: "Invalid settings format",
		},
		{
			name:    "out of range",
			path:    func(t *testing.T) string { return writeSettings(t, "ui:\n  update_interval_ms: 20\n") },
			wantMsg: "ui.update_interval_ms",
		},
		{
			name:    "future version",
			path:    func(t *testing.T) string { return writeSettings(t, "version: 99\n") },
			wantMsg: "newer sysmon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file is silent", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "none.yaml"))
		assert.NoError(t, err)
		assert.Equal(t, DefaultSettings(), cfg)
	})

	t.Run("corrupt file falls back to defaults with a warning", func(t *testing.T) {
		cfg, err := LoadOrDefault(writeSettings(t, "ui: [unclosed\n"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
		assert.Equal(t, DefaultSettings(), cfg)
	})

	t.Run("invalid fields are reset individually", func(t *testing.T) {
		cfg, err := LoadOrDefault(writeSettings(t, `
ui:
  font_size: 14
  update_interval_ms: 60000
  theme_mode: solarized
sampler:
  process_limit: 0
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ui.theme_mode")

		assert.Equal(t, 14, cfg.UI.FontSize)
		assert.Equal(t, MaxIntervalMS, cfg.UI.UpdateIntervalMS)
		assert.Equal(t, "auto", cfg.UI.ThemeMode)
		assert.Equal(t, 80, cfg.Sampler.ProcessLimit)
		assert.NoError(t, Validate(cfg))
	})
}

func TestSanitize(t *testing.T) {
	cfg := DefaultSettings()
	cfg.UI.UpdateIntervalMS = 100
	cfg.Sampler.DiskPath = "relative"
	cfg.Sampler.ProcessDeadline = time.Minute

	changed := Sanitize(cfg)

	assert.ElementsMatch(t, []string{"ui.update_interval_ms", "sampler.disk_path", "sampler.process_deadline"}, changed)
	assert.Equal(t, MinIntervalMS, cfg.UI.UpdateIntervalMS)
	assert.Equal(t, "/", cfg.Sampler.DiskPath)
	assert.Equal(t, 2*time.Second, cfg.Sampler.ProcessDeadline)
	assert.Empty(t, Sanitize(cfg))
}

func TestCheck_MessagesUseYAMLKeys(t *testing.T) {
	cfg := DefaultSettings()
	cfg.UI.ThemeMode = "neon"

	problems := Check(cfg)
	require.Len(t, problems, 1)
	assert.Equal(t, "ui.theme_mode", problems[0].Key)
	assert.Contains(t, problems[0].Message, "auto, dark, light")
}

func TestResolve(t *testing.T) {
	path, err := Resolve("/tmp/explicit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/explicit.yaml", path)

	t.Setenv("HOME", "/home/tester")
	path, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.config/sysmon/config.yaml", path)
}
