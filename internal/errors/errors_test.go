package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesCode(t *testing.T) {
	err := NewNotFound("project", "abc")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrSaveFailed))
	assert.False(t, Is(nil, ErrNotFound))
}

func TestIs_UnwrapsChains(t *testing.T) {
	inner := NewStorageUnavailable(stderrors.New("locked"))
	wrapped := fmt.Errorf("opening vault: %w", inner)
	assert.True(t, Is(wrapped, ErrStorageUnavailable))
	assert.False(t, Is(wrapped, ErrNotFound))
}

func TestUnwrap_ExposesCause(t *testing.T) {
	cause := stderrors.New("root cause")
	err := NewSaveFailed(cause)
	assert.True(t, stderrors.Is(err, cause))
}

func TestMessages(t *testing.T) {
	err := NewInvalidVersion("1.x")
	require.Contains(t, err.Error(), "INVALID_VERSION")
	require.Contains(t, err.Error(), `"1.x"`)
	assert.Equal(t, "1.x", err.Details["input"])

	mig := NewMigrationFailed(4, stderrors.New("boom"))
	assert.Contains(t, mig.Error(), "v4")
}
