// Package todo reads and writes the to-do list file. Reads are tolerant:
// a missing or malformed file is an empty list, and absent item fields get
// defaults.
package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/apperr"
	"github.com/Guliveer/tasklet/internal/storage"
)

// Todo is a single list entry.
type Todo struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Done  bool   `json:"done"`
	Order int    `json:"order"`
}

// rawTodo distinguishes absent fields from zero values.
type rawTodo struct {
	ID    *string `json:"id"`
	Text  *string `json:"text"`
	Done  *bool   `json:"done"`
	Order *int    `json:"order"`
}

// Store reads and writes the list at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
	newID  func() string

	// seen is the file content last read or written by this process; the
	// watcher ignores events that leave it unchanged.
	mu   sync.Mutex
	seen []byte
}

// NewStore returns a Store for the list at path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		logger: logger.Named("todo-store"),
		newID:  func() string { return uuid.NewString() },
	}
}

// Path returns the list location.
func (s *Store) Path() string { return s.path }

// Load returns the stored list, never nil. Items without an id get a fresh
// one; items without an order take their array index.
func (s *Store) Load() []Todo {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to read todos, starting empty",
				zap.String("file", s.path),
				zap.Error(err))
		}
		return []Todo{}
	}
	s.remember(data)

	var raw []rawTodo
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("Failed to parse todos, starting empty",
			zap.String("file", s.path),
			zap.Error(err))
		return []Todo{}
	}

	todos := make([]Todo, 0, len(raw))
	for i, r := range raw {
		t := Todo{Order: i}
		if r.ID != nil && *r.ID != "" {
			t.ID = *r.ID
		} else {
			t.ID = s.newID()
		}
		if r.Text != nil {
			t.Text = *r.Text
		}
		if r.Done != nil {
			t.Done = *r.Done
		}
		if r.Order != nil {
			t.Order = *r.Order
		}
		todos = append(todos, t)
	}
	return todos
}

// Save replaces the stored list.
func (s *Store) Save(todos []Todo) error {
	if todos == nil {
		todos = []Todo{}
	}
	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return apperr.IO("save todos", fmt.Errorf("marshaling todos: %w", err))
	}
	// Remember first so the watcher never mistakes this write for an external one.
	s.remember(data)
	if err := storage.WriteFile(s.path, data, 0o640); err != nil {
		return apperr.IO("save todos", err)
	}
	s.logger.Debug("Saved todos", zap.Int("count", len(todos)))
	return nil
}

func (s *Store) remember(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen[:0], data...)
}
