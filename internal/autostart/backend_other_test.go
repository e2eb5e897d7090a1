//go:build !windows

package autostart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/tasklet/internal/apperr"
)

func TestUnsupportedBackend(t *testing.T) {
	b := New(Options{})

	err := b.Set(true)
	require.Error(t, err)
	assert.True(t, apperr.IsUnsupported(err))

	enabled, err := b.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}
