//go:build windows

package autostart

// New returns the Run-key backed Backend.
func New(opts Options) Backend {
	return NewWithStore(runKeyStore{}, opts)
}
