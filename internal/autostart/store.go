package autostart

import "errors"

// Access is the access mode requested when opening the Run key.
type Access int

const (
	AccessRead Access = iota
	AccessWrite
	AccessSetValue
)

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessSetValue:
		return "set-value"
	default:
		return "unknown"
	}
}

var (
	// ErrNotExist is matched by store errors for a missing key or value.
	ErrNotExist = errors.New("registry entry does not exist")
	// ErrAccessDenied is matched by store errors the OS rejected on permissions.
	ErrAccessDenied = errors.New("registry access denied")
)

// Store opens the Run key. Implementations translate OS errors so they
// match ErrNotExist and ErrAccessDenied with errors.Is.
type Store interface {
	Open(access Access) (Key, error)
}

// Key is an open handle on the Run key.
type Key interface {
	GetString(name string) (string, error)
	SetString(name, value string) error
	DeleteValue(name string) error
	Close() error
}
