package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNoModFound, "installing foo")
	require.Error(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, ErrNoModFound))
	assert.Contains(t, wrapped.Error(), "installing foo")

	assert.NoError(t, Wrap(nil, "context"))
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrPlacementFailed, "moving %s to %s", "a", "b")
	require.Error(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, ErrPlacementFailed))
	assert.Contains(t, wrapped.Error(), "moving a to b")

	assert.NoError(t, Wrapf(nil, "context %d", 1))
}
