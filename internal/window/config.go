// Package window persists the main window's placement and pin state and
// validates restored placement against the attached displays.
package window

import (
	"encoding/json"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/apperr"
	"github.com/Guliveer/tasklet/internal/storage"
)

const (
	DefaultX           int32 = 100
	DefaultY           int32 = 100
	DefaultAlwaysOnTop       = true
)

// Config is the persisted window record.
type Config struct {
	X           int32 `json:"x"`
	Y           int32 `json:"y"`
	AlwaysOnTop bool  `json:"alwaysOnTop"`
}

// DefaultConfig is used whenever no valid record exists.
func DefaultConfig() Config {
	return Config{X: DefaultX, Y: DefaultY, AlwaysOnTop: DefaultAlwaysOnTop}
}

// Store reads and writes the window record at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore returns a Store for the record at path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger.Named("window-store")}
}

// Path returns the record location.
func (s *Store) Path() string { return s.path }

// Load returns the persisted record. A missing, unreadable or malformed file
// yields DefaultConfig; absent fields keep their defaults.
func (s *Store) Load() Config {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to read window config, using defaults",
				zap.String("file", s.path),
				zap.Error(err))
		}
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("Failed to parse window config, using defaults",
			zap.String("file", s.path),
			zap.Error(err))
		return DefaultConfig()
	}
	return cfg
}

// Save overwrites the record. Errors are returned, not retried.
func (s *Store) Save(cfg Config) error {
	if err := storage.WriteJSON(s.path, cfg); err != nil {
		return apperr.IO("save window config", err)
	}
	s.logger.Debug("Saved window config",
		zap.Int32("x", cfg.X),
		zap.Int32("y", cfg.Y),
		zap.Bool("always_on_top", cfg.AlwaysOnTop))
	return nil
}
