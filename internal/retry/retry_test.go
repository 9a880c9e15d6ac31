package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(3, time.Millisecond, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoWrapsLastError(t *testing.T) {
	cause := errors.New("connection refused")
	calls := 0
	err := Do(2, time.Millisecond, func() error {
		calls++
		return cause
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, cause)
}
