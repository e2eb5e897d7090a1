// Package autostart registers the application to launch at user login.
//
// On Windows the registration is a string value under the per-user Run key.
// Every other platform gets a backend that reports "unsupported" on writes
// and "disabled" on reads.
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	// RunKeyPath is the per-user login registration key, relative to HKCU.
	RunKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

	// DefaultValueName is the value written under RunKeyPath.
	DefaultValueName = "tasklet"

	defaultAttempts = 3
	defaultBackoff  = 100 * time.Millisecond
)

// Backend toggles and queries the login registration for the current executable.
type Backend interface {
	// Set enables or disables launch at login.
	Set(enabled bool) error
	// IsEnabled reports whether the registration points at the current executable.
	IsEnabled() (bool, error)
}

// Options configures a Backend. Zero values fall back to defaults.
type Options struct {
	ValueName string
	Attempts  int
	Backoff   time.Duration
	Logger    *zap.Logger
	Clock     clockwork.Clock
	// Executable resolves the path to register and compare against.
	// Defaults to the running binary; use Target when the program launched
	// at login is not this process.
	Executable func() (string, error)
}

func (o Options) withDefaults() Options {
	if o.ValueName == "" {
		o.ValueName = DefaultValueName
	}
	if o.Attempts <= 0 {
		o.Attempts = defaultAttempts
	}
	if o.Backoff <= 0 {
		o.Backoff = defaultBackoff
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Executable == nil {
		o.Executable = currentExecutable
	}
	return o
}

// Normalize trims whitespace and strips one layer of surrounding double
// quotes so stored values can be compared with raw executable paths. It is
// idempotent on values QuoteIfNeeded produces; a value quoted twice keeps
// its inner layer.
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	p = strings.TrimPrefix(p, `"`)
	p = strings.TrimSuffix(p, `"`)
	return strings.TrimSpace(p)
}

// QuoteIfNeeded wraps path in double quotes when it contains a space, which
// is how Run entries must be written for the shell to launch them.
func QuoteIfNeeded(path string) string {
	if strings.Contains(path, " ") {
		return `"` + path + `"`
	}
	return path
}

func currentExecutable() (string, error) {
	p, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Clean(p))
}

// ErrNoTarget is returned by a Target resolver with an empty path.
var ErrNoTarget = errors.New("no autostart target configured; set autostart.target or pass --autostart-target")

// Target returns an Executable resolver that always yields path. The path
// must be absolute, since the login launcher has no working directory.
func Target(path string) func() (string, error) {
	return func() (string, error) {
		if strings.TrimSpace(path) == "" {
			return "", ErrNoTarget
		}
		if !filepath.IsAbs(path) {
			return "", fmt.Errorf("autostart target %q is not an absolute path", path)
		}
		return filepath.Clean(path), nil
	}
}
