//go:build windows

package autostart

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// runKeyStore opens HKCU\Software\Microsoft\Windows\CurrentVersion\Run.
type runKeyStore struct{}

func (runKeyStore) Open(access Access) (Key, error) {
	var mask uint32
	switch access {
	case AccessRead:
		mask = registry.READ
	case AccessWrite:
		mask = registry.WRITE
	case AccessSetValue:
		mask = registry.SET_VALUE
	default:
		return nil, fmt.Errorf("unknown access mode %d", access)
	}

	k, err := registry.OpenKey(registry.CURRENT_USER, RunKeyPath, mask)
	if err != nil {
		return nil, translate(err)
	}
	return runKey{k: k}, nil
}

type runKey struct {
	k registry.Key
}

func (r runKey) GetString(name string) (string, error) {
	val, _, err := r.k.GetStringValue(name)
	if err != nil {
		return "", translate(err)
	}
	return val, nil
}

func (r runKey) SetString(name, value string) error {
	return translate(r.k.SetStringValue(name, value))
}

func (r runKey) DeleteValue(name string) error {
	return translate(r.k.DeleteValue(name))
}

func (r runKey) Close() error {
	return r.k.Close()
}

// translate maps registry errnos onto the package sentinels, keeping the
// original error in the chain.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, registry.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotExist, err)
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	default:
		return err
	}
}
