package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrRunNotFound",
			err:      fmt.Errorf("failed to load run: %w", ErrRunNotFound),
			expected: true,
		},
		{
			name:     "store error wrapping ErrRunNotFound",
			err:      NewStoreError("run", "get", "no such run", ErrRunNotFound),
			expected: true,
		},
		{
			name:     "ErrDuplicate",
			err:      ErrDuplicate,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(ErrRunNotFound))
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("record run: %w", ErrDuplicate)))
}

func TestStoreError(t *testing.T) {
	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("run", "record", "empty descriptor name", nil)
		assert.Equal(t, "record operation on run failed: empty descriptor name", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})

	t.Run("with wrapped error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewStoreError("run", "list", "query failed", cause)
		assert.Equal(t, "list operation on run failed: query failed: connection reset", err.Error())
		assert.ErrorIs(t, err, cause)

		var se *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &se))
		assert.Equal(t, "list", se.Operation)
	})
}
