package commands

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Guliveer/tasklet/internal/apperr"
	"github.com/Guliveer/tasklet/internal/todo"
)

type fakeAutostart struct {
	enabled bool
	setErr  error
	readErr error
	calls   []bool
}

func (f *fakeAutostart) Set(enabled bool) error {
	f.calls = append(f.calls, enabled)
	if f.setErr != nil {
		return f.setErr
	}
	f.enabled = enabled
	return nil
}

func (f *fakeAutostart) IsEnabled() (bool, error) { return f.enabled, f.readErr }

type fakeWindow struct {
	pinned  []bool
	drags   int
	pinErr  error
	dragErr error
}

func (f *fakeWindow) SetAlwaysOnTop(enabled bool) error {
	if f.pinErr != nil {
		return f.pinErr
	}
	f.pinned = append(f.pinned, enabled)
	return nil
}

func (f *fakeWindow) StartDragging() error {
	f.drags++
	return f.dragErr
}

func newService(t *testing.T, a *fakeAutostart, w Window) (*Service, *todo.Store) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := todo.NewStore(filepath.Join(t.TempDir(), "todos.json"), logger)
	return New(store, a, w, logger), store
}

func TestTodos_SaveThenLoad(t *testing.T) {
	svc, _ := newService(t, &fakeAutostart{}, nil)
	assert.Empty(t, svc.LoadTodos())

	in := []todo.Todo{
		{ID: "a", Text: "milk", Order: 0},
		{ID: "b", Text: "eggs", Done: true, Order: 1},
	}
	require.NoError(t, svc.SaveTodos(in))
	assert.Equal(t, in, svc.LoadTodos())
}

func TestSaveTodos_ErrorIsHumanReadable(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()
	// The parent "directory" is a file, so the write cannot succeed.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, todo.NewStore(blocker, logger).Save(nil))
	svc := New(todo.NewStore(filepath.Join(blocker, "todos.json"), logger), &fakeAutostart{}, nil, logger)

	err := svc.SaveTodos([]todo.Todo{{ID: "x"}})
	require.Error(t, err)
	var cmdErr *Error
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, cmdErr.Message, "save todos")
}

func TestSetAutostart(t *testing.T) {
	a := &fakeAutostart{}
	svc, _ := newService(t, a, nil)

	require.NoError(t, svc.SetAutostart(true))
	assert.True(t, svc.IsAutostartEnabled())
	require.NoError(t, svc.SetAutostart(false))
	assert.False(t, svc.IsAutostartEnabled())
	assert.Equal(t, []bool{true, false}, a.calls)
}

func TestSetAutostart_PassesMessageThrough(t *testing.T) {
	a := &fakeAutostart{setErr: apperr.RegistryPermission("set autostart", "try running the application as administrator", errors.New("Access is denied."))}
	svc, _ := newService(t, a, nil)

	err := svc.SetAutostart(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "administrator")
	assert.Contains(t, err.Error(), "Access is denied.")
}

func TestIsAutostartEnabled_FoldsErrorsToFalse(t *testing.T) {
	a := &fakeAutostart{enabled: true, readErr: errors.New("registry unavailable")}
	svc, _ := newService(t, a, nil)
	assert.False(t, svc.IsAutostartEnabled())
}

func TestWindowCommands(t *testing.T) {
	w := &fakeWindow{}
	svc, _ := newService(t, &fakeAutostart{}, w)

	require.NoError(t, svc.SetAlwaysOnTop(false))
	require.NoError(t, svc.StartWindowDrag())
	assert.Equal(t, []bool{false}, w.pinned)
	assert.Equal(t, 1, w.drags)

	w.pinErr = errors.New("window destroyed")
	require.EqualError(t, svc.SetAlwaysOnTop(true), "window destroyed")
}

func TestWindowCommands_NoWindow(t *testing.T) {
	svc, _ := newService(t, &fakeAutostart{}, nil)
	require.Error(t, svc.SetAlwaysOnTop(true))
	require.Error(t, svc.StartWindowDrag())
}
