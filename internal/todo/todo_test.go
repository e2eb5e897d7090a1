package todo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Guliveer/tasklet/internal/apperr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "todos.json"), zaptest.NewLogger(t))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)
	todos := s.Load()
	require.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestLoad_DefaultsMissingFields(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `[{"text":"a"}]`)

	todos := s.Load()
	require.Len(t, todos, 1)
	assert.NotEmpty(t, todos[0].ID)
	assert.Equal(t, "a", todos[0].Text)
	assert.False(t, todos[0].Done)
	assert.Equal(t, 0, todos[0].Order)
}

func TestLoad_KeepsPresentFields(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `[
		{"id":"keep","text":"first","done":true,"order":7},
		{"text":"second"},
		{},
		{"id":"","order":0}
	]`)

	todos := s.Load()
	require.Len(t, todos, 4)
	assert.Equal(t, Todo{ID: "keep", Text: "first", Done: true, Order: 7}, todos[0])
	assert.Equal(t, 1, todos[1].Order)
	assert.Equal(t, 2, todos[2].Order)
	assert.Equal(t, "", todos[2].Text)
	assert.Equal(t, 0, todos[3].Order, "explicit order wins over index")
	assert.NotEmpty(t, todos[3].ID)

	ids := map[string]bool{}
	for _, td := range todos {
		ids[td.ID] = true
	}
	assert.Len(t, ids, 4, "generated ids must be unique")
}

func TestLoad_MalformedIsEmpty(t *testing.T) {
	for _, content := range []string{`{`, `{"text":"a"}`, `[1,2]`, ``, `[{"done":"yes"}]`} {
		t.Run(content, func(t *testing.T) {
			s := newTestStore(t)
			writeFile(t, s.Path(), content)
			assert.Empty(t, s.Load())
		})
	}
}

func TestSave_ThenLoad(t *testing.T) {
	s := newTestStore(t)
	in := []Todo{
		{ID: "a", Text: "write tests", Done: true, Order: 0},
		{ID: "b", Text: "ship", Order: 1},
	}
	require.NoError(t, s.Save(in))
	assert.Equal(t, in, s.Load())
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(nil))
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestSave_FailureIsIOError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.Mkdir(s.Path(), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path(), "keep"), nil, 0o600))

	err := s.Save([]Todo{{ID: "x"}})
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindIO, kind)
}
