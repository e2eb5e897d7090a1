package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/autostart"
)

// newAutostart builds the login registration backend for target. An empty
// target makes Set fail and IsEnabled report disabled.
func newAutostart(a *app, target string) autostart.Backend {
	return autostart.New(autostart.Options{
		ValueName:  a.cfg.Autostart.ValueName,
		Attempts:   a.cfg.Autostart.Attempts,
		Backoff:    a.cfg.Autostart.Backoff.Duration,
		Logger:     a.logger,
		Executable: autostart.Target(target),
	})
}

// serveAutostartTarget picks the program to launch at login in serve mode:
// the configured target, else the UI host that started this process. The
// backend itself is never registered; launched alone it has no window.
func serveAutostartTarget(ctx context.Context, configured string, parent func(context.Context) (string, error), logger *zap.Logger) string {
	if configured != "" {
		return configured
	}
	exe, err := parent(ctx)
	if err != nil {
		logger.Warn("Cannot determine the UI host executable; autostart is unavailable until autostart.target is set",
			zap.Error(err))
		return ""
	}
	logger.Debug("Using UI host as autostart target", zap.String("target", exe))
	return exe
}
