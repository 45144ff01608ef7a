package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

const (
	// GlobalConfigDir is the settings directory relative to $HOME.
	GlobalConfigDir = ".config/sysmon"
	// GlobalConfigFile is the settings file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. SYSMON_UI_THEME_MODE.
	EnvPrefix = "SYSMON"
)

// DefaultPath returns ~/.config/sysmon/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Pass a settings file explicitly with --config")
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile), nil
}

// Resolve returns explicit when set, otherwise DefaultPath.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return DefaultPath()
}

// Load reads and validates settings from path. Unlike LoadOrDefault it
// reports every problem as an error.
func Load(path string) (*Settings, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Settings file not found: "+path,
				"Run 'sysmon config reset' to write the defaults")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Settings file is corrupt: "+path,
			"Fix the YAML syntax or run 'sysmon config reset'")
	}

	cfg, err := parseSettings(v, path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault never fails to produce usable settings. A missing file
// yields the defaults with no error. A corrupt file yields the defaults and
// an ErrConfig warning; invalid fields are reset individually and reported
// the same way. Callers should log the warning and carry on.
func LoadOrDefault(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultsFromEnv(), nil
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return defaultsFromEnv(), errors.WrapWithCode(err, errors.ErrConfig,
			"Settings file is corrupt, using defaults",
			"Fix "+path+" or run 'sysmon config reset'")
	}

	cfg, err := parseSettings(v, path)
	if err != nil {
		return defaultsFromEnv(), errors.WrapWithCode(err, errors.ErrConfig,
			"Settings file is corrupt, using defaults",
			"Fix "+path+" or run 'sysmon config reset'")
	}

	if reset := Sanitize(cfg); len(reset) > 0 {
		return cfg, errors.New(errors.ErrConfig,
			"Invalid settings reset to defaults: "+strings.Join(reset, ", "),
			"Edit "+path+" or run 'sysmon config edit'")
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so env overrides and partial files merge
// onto the built-in values.
func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("version", d.Version)
	v.SetDefault("ui.font_size", d.UI.FontSize)
	v.SetDefault("ui.update_interval_ms", d.UI.UpdateIntervalMS)
	v.SetDefault("ui.theme_mode", d.UI.ThemeMode)
	v.SetDefault("sampler.process_limit", d.Sampler.ProcessLimit)
	v.SetDefault("sampler.process_deadline", d.Sampler.ProcessDeadline.String())
	v.SetDefault("sampler.disk_path", d.Sampler.DiskPath)
}

func parseSettings(v *viper.Viper, path string) (*Settings, error) {
	cfg := DefaultSettings()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid settings format",
			"Check the value types in "+path)
	}
	return cfg, nil
}

// defaultsFromEnv applies SYSMON_* overrides to the defaults. Overrides that
// do not parse or validate are ignored.
func defaultsFromEnv() *Settings {
	cfg, err := parseSettings(newViper(), "environment")
	if err != nil {
		return DefaultSettings()
	}
	Sanitize(cfg)
	return cfg
}
