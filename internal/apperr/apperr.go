// Package apperr defines the error classification shared by the backend
// components. Every fallible operation that crosses a component boundary
// returns an *Error so callers can tell permission problems from generic
// I/O failures without parsing message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the top-level error category.
type Kind int

const (
	KindIO                  Kind = iota // file read/write/serialize failures
	KindPathResolution                  // executable path or data directory unavailable
	KindRegistryAccess                  // login registration store failures
	KindUnsupportedPlatform             // feature not available on this OS
	KindWindow                          // window handle unavailable or rejected a request
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindPathResolution:
		return "path resolution"
	case KindRegistryAccess:
		return "registry access"
	case KindUnsupportedPlatform:
		return "unsupported platform"
	case KindWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Sub refines KindRegistryAccess.
type Sub int

const (
	SubNone Sub = iota
	SubPermissionDenied
	SubOther
)

// Error is a classified error with an operation name and optional cause.
type Error struct {
	Kind    Kind
	Sub     Sub
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op
	if e.Message != "" {
		if msg != "" {
			msg += ": "
		}
		msg += e.Message
	}
	if e.Cause != nil {
		if msg != "" {
			return fmt.Sprintf("%s: %v", msg, e.Cause)
		}
		return e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IO wraps a file or serialization failure.
func IO(op string, cause error) *Error {
	return &Error{Kind: KindIO, Op: op, Cause: cause}
}

// PathResolution wraps a failure to locate the executable or data directory.
func PathResolution(op string, cause error) *Error {
	return &Error{Kind: KindPathResolution, Op: op, Cause: cause}
}

// Unsupported reports that op is not available on the running platform.
func Unsupported(op, platform string) *Error {
	return &Error{
		Kind:    KindUnsupportedPlatform,
		Op:      op,
		Message: fmt.Sprintf("only supported on Windows (running on %s)", platform),
	}
}

// Window wraps a failure of the window handle or its owner context.
func Window(op string, cause error) *Error {
	return &Error{Kind: KindWindow, Op: op, Cause: cause}
}

// RegistryPermission wraps an access-denied failure against the login
// registration store. hint is appended to the message verbatim.
func RegistryPermission(op, hint string, cause error) *Error {
	return &Error{Kind: KindRegistryAccess, Sub: SubPermissionDenied, Op: op, Message: hint, Cause: cause}
}

// RegistryOther wraps any non-permission registration store failure.
func RegistryOther(op string, cause error) *Error {
	return &Error{Kind: KindRegistryAccess, Sub: SubOther, Op: op, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, and false if
// there is none.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsPermissionDenied reports whether err is a permission-class registry error.
func IsPermissionDenied(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindRegistryAccess && e.Sub == SubPermissionDenied
}

// IsUnsupported reports whether err reports an unsupported platform.
func IsUnsupported(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindUnsupportedPlatform
}
