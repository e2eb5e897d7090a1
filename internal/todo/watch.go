package todo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports rewrites of the list file made by other processes.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching the list's directory. The directory is watched
// rather than the file so atomic replace-by-rename is seen.
func (s *Store) NewWatcher() (*Watcher, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating todo watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{store: s, watcher: w}, nil
}

// Run calls onChange for each external change until ctx is cancelled.
// Events that leave the content as the Store last read or wrote it are
// ignored, which filters out the Store's own saves.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	defer w.watcher.Close()
	s := w.store

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !s.changedExternally() {
				continue
			}
			s.logger.Info("Todo file changed on disk", zap.String("op", event.Op.String()))
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Todo watcher error", zap.Error(err))
		}
	}
}

// changedExternally compares the file with the last known content and
// adopts the new content when it differs.
func (s *Store) changedExternally() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		data = nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if bytes.Equal(data, s.seen) {
		return false
	}
	s.seen = append(s.seen[:0], data...)
	return true
}
