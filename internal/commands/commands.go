// Package commands is the command surface the UI host invokes. Every command
// is synchronous and reports failures as human-readable messages.
package commands

import (
	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/todo"
)

// TodoStore persists the to-do list.
type TodoStore interface {
	Load() []todo.Todo
	Save(todos []todo.Todo) error
}

// Autostart toggles and queries the login autostart entry.
type Autostart interface {
	Set(enabled bool) error
	IsEnabled() (bool, error)
}

// Window applies user window commands.
type Window interface {
	SetAlwaysOnTop(enabled bool) error
	StartDragging() error
}

// Service dispatches commands to the subsystems.
type Service struct {
	todos     TodoStore
	autostart Autostart
	window    Window
	logger    *zap.Logger
}

// New creates a Service. A nil window makes the window commands fail.
func New(todos TodoStore, autostart Autostart, window Window, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		todos:     todos,
		autostart: autostart,
		window:    window,
		logger:    logger.Named("commands"),
	}
}

// Error is a command failure as shown to the user.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Message: err.Error()}
}

var errNoWindow = &Error{Message: "no window is attached"}

// LoadTodos returns the stored list. It never fails.
func (s *Service) LoadTodos() []todo.Todo {
	return s.todos.Load()
}

// SaveTodos replaces the stored list.
func (s *Service) SaveTodos(todos []todo.Todo) error {
	if err := s.todos.Save(todos); err != nil {
		s.logger.Error("Failed to save todos", zap.Error(err))
		return fail(err)
	}
	return nil
}

// SetAutostart enables or disables launching at login.
func (s *Service) SetAutostart(enabled bool) error {
	if err := s.autostart.Set(enabled); err != nil {
		s.logger.Error("Failed to change autostart",
			zap.Bool("enabled", enabled),
			zap.Error(err))
		return fail(err)
	}
	s.logger.Info("Autostart changed", zap.Bool("enabled", enabled))
	return nil
}

// IsAutostartEnabled reports whether launching at login is enabled. Query
// failures are logged and reported as disabled.
func (s *Service) IsAutostartEnabled() bool {
	enabled, err := s.autostart.IsEnabled()
	if err != nil {
		s.logger.Warn("Failed to query autostart, reporting disabled", zap.Error(err))
		return false
	}
	return enabled
}

// SetAlwaysOnTop pins or unpins the window and persists the choice.
func (s *Service) SetAlwaysOnTop(enabled bool) error {
	if s.window == nil {
		return errNoWindow
	}
	if err := s.window.SetAlwaysOnTop(enabled); err != nil {
		s.logger.Error("Failed to change always-on-top",
			zap.Bool("enabled", enabled),
			zap.Error(err))
		return fail(err)
	}
	return nil
}

// StartWindowDrag begins an OS-level window drag.
func (s *Service) StartWindowDrag() error {
	if s.window == nil {
		return errNoWindow
	}
	return fail(s.window.StartDragging())
}
