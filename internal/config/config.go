// Package config persists user preferences between runs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	DefaultFormat  = "jpeg"
	DefaultQuality = 85
)

type Config struct {
	Theme   string `yaml:"theme"`
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`
}

func Default() Config {
	return Config{Theme: ThemeDark, Format: DefaultFormat, Quality: DefaultQuality}
}

// Path returns the config file location under the user config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "imconv", "config.yaml"), nil
}

// Load reads the config at path. A missing file yields the defaults; unset
// or invalid fields fall back to their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if file.Theme == ThemeDark || file.Theme == ThemeLight {
		cfg.Theme = file.Theme
	}
	if file.Format != "" {
		cfg.Format = file.Format
	}
	if file.Quality >= 1 && file.Quality <= 100 {
		cfg.Quality = file.Quality
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
