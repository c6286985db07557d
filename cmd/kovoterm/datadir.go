// ABOUTME: XDG-based data directory resolution for kovoterm persistent state.
// ABOUTME: Checks KOVOTERM_DATA_DIR and XDG_DATA_HOME, falls back to ~/.local/share/kovoterm.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir returns the default data directory for the local snapshot
// store. KOVOTERM_DATA_DIR wins, then XDG_DATA_HOME, then ~/.local/share/kovoterm.
func defaultDataDir() (string, error) {
	if dir := os.Getenv("KOVOTERM_DATA_DIR"); dir != "" {
		return dir, nil
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "kovoterm"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "kovoterm"), nil
}

// resolveDataDir returns the data directory to use, preferring an explicit
// override and falling back to the environment-based default.
func resolveDataDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return defaultDataDir()
}
