package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrExists is returned by WriteFile when the target exists and force is off.
var ErrExists = errors.New("config file already exists")

const redacted = "****"

// WriteYAML encodes cfg as a YAML config file. Secrets are masked when redact is set.
func WriteYAML(w io.Writer, cfg Config, redact bool) error {
	settings := Settings(cfg)
	if redact && cfg.History.RedisPassword != "" {
		settings["history"].(map[string]any)["redisPassword"] = redacted
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// WriteFile writes cfg to path, creating parent directories.
func WriteFile(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := WriteYAML(f, cfg, false); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Sample returns the config written by `tictac config init`.
func Sample() Config {
	cfg := Default()
	cfg.Connection.Port = "COM5"
	return cfg
}
