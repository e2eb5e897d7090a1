// Package paths resolves where the application keeps its per-user data.
package paths

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Guliveer/tasklet/internal/apperr"
)

// AppIdentifier names the per-user data directory.
const AppIdentifier = "com.guliveer.tasklet"

const (
	TodosFile  = "todos.json"
	WindowFile = "window.json"
)

// Paths holds the resolved data locations.
type Paths struct {
	DataDir    string
	TodosPath  string
	WindowPath string
}

// Resolve returns the data locations, creating the data directory. A
// non-empty override replaces the platform default directory.
func Resolve(override string) (Paths, error) {
	dir := override
	if dir == "" {
		base, err := userDataDir()
		if err != nil {
			return Paths{}, apperr.PathResolution("resolve data directory", err)
		}
		dir = filepath.Join(base, AppIdentifier)
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return Paths{}, apperr.PathResolution("resolve data directory", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Paths{}, apperr.PathResolution("create data directory", err)
	}
	return InDir(dir), nil
}

// InDir returns the file locations inside dir without touching the disk.
func InDir(dir string) Paths {
	return Paths{
		DataDir:    dir,
		TodosPath:  filepath.Join(dir, TodosFile),
		WindowPath: filepath.Join(dir, WindowFile),
	}
}

var errNoHome = errors.New("cannot determine user home directory")

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errNoHome
	}
	return home, nil
}
