//go:build !windows

package autostart

import (
	"runtime"

	"github.com/Guliveer/tasklet/internal/apperr"
)

// New returns the unsupported Backend on platforms without a Run key.
func New(opts Options) Backend {
	opts = opts.withDefaults()
	return &unsupportedBackend{opts: opts}
}

// unsupportedBackend rejects writes and always reports disabled.
type unsupportedBackend struct {
	opts Options
}

func (u *unsupportedBackend) Set(enabled bool) error {
	u.opts.Logger.Named("autostart").Debug("Autostart not supported on this platform")
	return apperr.Unsupported("set autostart", runtime.GOOS)
}

func (u *unsupportedBackend) IsEnabled() (bool, error) {
	return false, nil
}
