// Package config loads spatch's optional JSON configuration file, which
// supplies defaults for values the CLI flags can override.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDirName  = "spatch"
	configFileName = "config.json"
)

// Config carries the user-tunable defaults.
type Config struct {
	// OutputDir is the default directory split patches are written to.
	OutputDir string `json:"output_dir,omitempty"`
	// NameSeparator replaces '/' when flattening filenames into patch names.
	NameSeparator string `json:"name_separator,omitempty"`
	// PatchExtension is the extension (without dot) appended to patch names.
	PatchExtension string `json:"patch_extension,omitempty"`
}

// Load reads the configuration from its default location. A missing file is
// not an error and yields the zero config.
func Load() (Config, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, "", err
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath reads and validates the configuration at path.
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, nil
	}

	if err := validateAgainstSchema(data); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.OutputDir = strings.TrimSpace(cfg.OutputDir)
	cfg.NameSeparator = strings.TrimSpace(cfg.NameSeparator)
	cfg.PatchExtension = strings.TrimPrefix(strings.TrimSpace(cfg.PatchExtension), ".")
	return cfg, nil
}

// DefaultPath returns the location of the config file, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, configDirName, configFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}
