package autostart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/apperr"
	"github.com/Guliveer/tasklet/internal/retry"
)

// registryBackend implements Backend on top of a Store. It holds no state
// between calls; overlapping Set calls race on the same value.
type registryBackend struct {
	store    Store
	opts     Options
	logger   *zap.Logger
	elevated func() bool
}

// NewWithStore returns a Backend that manages the registration through store.
// New wires the OS store; tests pass an in-memory one.
func NewWithStore(store Store, opts Options) Backend {
	opts = opts.withDefaults()
	return &registryBackend{
		store:    store,
		opts:     opts,
		logger:   opts.Logger.Named("autostart"),
		elevated: isElevated,
	}
}

// Set writes or removes the Run value. Failures are retried with linear
// backoff; the error left after the last attempt is classified so callers
// can tell permission problems apart.
func (r *registryBackend) Set(enabled bool) error {
	op := "disable autostart"
	if enabled {
		op = "enable autostart"
	}

	// Removing the value does not depend on which program it named.
	var value string
	if enabled {
		exe, err := r.opts.Executable()
		if err != nil {
			return apperr.PathResolution("resolve executable path", err)
		}
		value = QuoteIfNeeded(exe)
	}

	policy := retry.Policy{
		MaxAttempts: r.opts.Attempts,
		Backoff:     retry.Linear(r.opts.Backoff),
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			r.logger.Warn("Registry write failed, retrying",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))
		},
	}

	err := retry.Do(context.Background(), r.opts.Clock, policy, func() error {
		return r.apply(enabled, value)
	})
	if err != nil {
		r.logger.Error("Registry write gave up", zap.String("op", op), zap.Error(err))
		if errors.Is(err, ErrAccessDenied) {
			return apperr.RegistryPermission(op, permissionHint(r.elevated()), err)
		}
		return apperr.RegistryOther(op, err)
	}

	r.logger.Info("Autostart updated",
		zap.Bool("enabled", enabled),
		zap.String("value_name", r.opts.ValueName),
		zap.String("value", value))
	return nil
}

// apply performs a single open-then-mutate attempt.
func (r *registryBackend) apply(enabled bool, value string) error {
	key, err := r.openForWrite()
	if err != nil {
		if !enabled && errors.Is(err, ErrNotExist) {
			// No Run key means no entry to delete.
			return nil
		}
		return err
	}
	defer key.Close()

	if enabled {
		return key.SetString(r.opts.ValueName, value)
	}
	if err := key.DeleteValue(r.opts.ValueName); err != nil && !errors.Is(err, ErrNotExist) {
		return err
	}
	return nil
}

// openForWrite opens with full write access, falling back to set-value only.
func (r *registryBackend) openForWrite() (Key, error) {
	key, err := r.store.Open(AccessWrite)
	if err == nil {
		return key, nil
	}
	r.logger.Debug("Opening Run key for write failed, trying set-value access", zap.Error(err))

	key, fallbackErr := r.store.Open(AccessSetValue)
	if fallbackErr != nil {
		return nil, fmt.Errorf("open run key: %w", fallbackErr)
	}
	return key, nil
}

// IsEnabled reads the Run value and compares it with the current executable.
// A missing value or key means disabled, not an error.
func (r *registryBackend) IsEnabled() (bool, error) {
	exe, err := r.opts.Executable()
	if err != nil {
		return false, apperr.PathResolution("resolve executable path", err)
	}

	key, err := r.store.Open(AccessRead)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return false, nil
		}
		if errors.Is(err, ErrAccessDenied) {
			return false, apperr.RegistryPermission("read autostart", permissionHint(r.elevated()), err)
		}
		return false, apperr.RegistryOther("read autostart", err)
	}
	defer key.Close()

	stored, err := key.GetString(r.opts.ValueName)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			r.logger.Debug("Reading Run value failed, treating as absent", zap.Error(err))
		}
		stored = ""
	}

	current := Normalize(stored)
	want := Normalize(exe)
	return current != "" && current == want, nil
}

func permissionHint(elevated bool) string {
	if elevated {
		return "access was denied even with administrator rights; check whether security software is blocking registry changes, then retry"
	}
	return "permission denied; try running the application as administrator, check whether security software is blocking registry changes, or retry later"
}
