package config

import "time"

// CurrentConfigVersion is the schema version for the settings file.
const CurrentConfigVersion = 1

// Settings is the complete contents of config.yaml.
type Settings struct {
	Version int           `yaml:"version" mapstructure:"version" validate:"gte=0"`
	UI      UISettings    `yaml:"ui" mapstructure:"ui"`
	Sampler SamplerConfig `yaml:"sampler" mapstructure:"sampler"`
}

// UISettings are the user-facing preferences. The dashboard changes these at
// runtime and writes them back on save and on exit.
type UISettings struct {
	// FontSize is carried for compatibility with older settings files.
	// Terminals pick their own font, so the dashboard never reads it.
	FontSize int `yaml:"font_size" mapstructure:"font_size" validate:"min=6,max=72"`

	// UpdateIntervalMS is the tick interval in milliseconds.
	UpdateIntervalMS int `yaml:"update_interval_ms" mapstructure:"update_interval_ms" validate:"min=250,max=10000"`

	// ThemeMode is "auto", "dark" or "light".
	ThemeMode string `yaml:"theme_mode" mapstructure:"theme_mode" validate:"oneof=auto dark light"`
}

// SamplerConfig tunes the process snapshotter and disk sampler.
type SamplerConfig struct {
	// ProcessLimit caps the number of rows in the process table.
	ProcessLimit int `yaml:"process_limit" mapstructure:"process_limit" validate:"min=1,max=1000"`

	// ProcessDeadline bounds how long one tick may spend enumerating
	// processes. Rows read before the deadline are still shown.
	ProcessDeadline time.Duration `yaml:"process_deadline" mapstructure:"process_deadline" validate:"min=50ms,max=30s"`

	// DiskPath is the mount point whose usage is reported.
	DiskPath string `yaml:"disk_path" mapstructure:"disk_path" validate:"required,startswith=/"`
}

// Interval returns UpdateIntervalMS as a duration.
func (u UISettings) Interval() time.Duration {
	return time.Duration(u.UpdateIntervalMS) * time.Millisecond
}

// DefaultSettings returns Settings with the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Version: CurrentConfigVersion,
		UI: UISettings{
			FontSize:         10,
			UpdateIntervalMS: DefaultIntervalMS,
			ThemeMode:        "auto",
		},
		Sampler: SamplerConfig{
			ProcessLimit:    80,
			ProcessDeadline: 2 * time.Second,
			DiskPath:        "/",
		},
	}
}
