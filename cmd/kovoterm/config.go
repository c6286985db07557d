// ABOUTME: Optional YAML config file support for the kovoterm CLI.
// ABOUTME: Resolution order for every setting is flag > environment > config file > built-in default.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultBind is the serve-mode listen address when nothing else configures it.
const defaultBind = "127.0.0.1:4141"

// fileConfig mirrors ~/.config/kovoterm/config.yaml. All fields are optional.
type fileConfig struct {
	APIURL  string `yaml:"api_url"`
	Token   string `yaml:"token"`
	Bind    string `yaml:"bind"`
	DataDir string `yaml:"data_dir"`
}

// defaultConfigPath returns the config file location. It checks
// XDG_CONFIG_HOME first, then falls back to ~/.config/kovoterm.
func defaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kovoterm", "config.yaml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", "kovoterm", "config.yaml"), nil
}

// loadFileConfig reads the YAML config file. A missing file is not an error;
// a malformed one is.
func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// applyFallbacks fills settings the flags (and their env defaults) left empty.
// The environment outranks the file, so file values only land when the
// corresponding variable is unset too.
func (cfg *config) applyFallbacks(fc fileConfig) {
	if cfg.apiURL == "" {
		cfg.apiURL = fc.APIURL
	}
	if cfg.token == "" {
		cfg.token = fc.Token
	}
	if cfg.bind == "" {
		switch {
		case os.Getenv("KOVOTERM_BIND") != "":
			cfg.bind = os.Getenv("KOVOTERM_BIND")
		case fc.Bind != "":
			cfg.bind = fc.Bind
		default:
			cfg.bind = defaultBind
		}
	}
	if cfg.dataDir == "" && os.Getenv("KOVOTERM_DATA_DIR") == "" {
		cfg.dataDir = fc.DataDir
	}
}
