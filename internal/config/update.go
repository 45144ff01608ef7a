package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

// Keys lists every settable dotted key.
var Keys = []string{
	"ui.font_size",
	"ui.update_interval_ms",
	"ui.theme_mode",
	"sampler.process_limit",
	"sampler.process_deadline",
	"sampler.disk_path",
}

const fileHeader = "# sysmon settings. Written by the dashboard on save and on exit.\n"

// Save writes cfg to path, creating parent directories. The file is
// replaced atomically so a crash mid-write never leaves a truncated file.
func Save(path string, cfg *Settings) error {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode settings", "")
	}
	if err := enc.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode settings", "")
	}

	return writeAtomic(path, buf.Bytes())
}

// SetValue changes a single dotted key (e.g. "ui.theme_mode") in the file at
// path, keeping comments and key order. The result must still validate; the
// file is left untouched otherwise. A missing file is created from defaults.
func SetValue(path, key, value string) error {
	if !lo.Contains(Keys, key) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown setting %q", key),
			"Known settings: "+strings.Join(Keys, ", "))
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := Save(path, DefaultSettings()); err != nil {
			return err
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to read settings file", "Check file permissions on "+path)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Settings file is corrupt: "+path, "Run 'sysmon config reset'")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfig, "Settings file has no top-level mapping: "+path, "Run 'sysmon config reset'")
	}

	parts := strings.Split(key, ".")
	node := root.Content[0]
	for _, part := range parts[:len(parts)-1] {
		child := findMapValue(node, part)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalar(part), child)
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(node, leaf); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = ""
		existing.Value = value
		existing.Content = nil
	} else {
		node.Content = append(node.Content, scalar(leaf), scalar(value))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode settings", "")
	}
	enc.Close()

	check := DefaultSettings()
	if err := yaml.Unmarshal(buf.Bytes(), check); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid value %q for %s", value, key), "")
	}
	if err := Validate(check); err != nil {
		return err
	}

	return writeAtomic(path, buf.Bytes())
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if k := node.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to create settings directory", "Check permissions on "+dir)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write settings", "Check permissions on "+dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write settings", "")
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write settings", "")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write settings", "")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to replace settings file", "")
	}
	return nil
}
