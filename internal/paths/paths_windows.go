//go:build windows

package paths

import (
	"errors"
	"os"
	"path/filepath"
)

// userDataDir returns %APPDATA% (roaming), falling back to the profile path.
func userDataDir() (string, error) {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return appData, nil
	}
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		return filepath.Join(profile, "AppData", "Roaming"), nil
	}
	return "", errors.New("neither APPDATA nor USERPROFILE is set")
}
