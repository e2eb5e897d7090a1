//go:build !windows && !darwin

package paths

import (
	"os"
	"path/filepath"
)

// userDataDir honours XDG_DATA_HOME.
func userDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" && filepath.IsAbs(xdg) {
		return xdg, nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}
