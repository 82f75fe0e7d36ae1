package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomError_UnwrapAndMessage(t *testing.T) {
	err := fmt.Errorf("signup: %w", NewValidationError("Username is required!"))

	assert.True(t, errors.Is(err, ErrValidationFailed))
	msg, ok := Message(err)
	assert.True(t, ok)
	assert.Equal(t, "Username is required!", msg)
}

func TestMessage_PlainError(t *testing.T) {
	_, ok := Message(ErrCourseNotFound)
	assert.False(t, ok)
}

func TestIs_List(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrBlobNotFound)
	assert.True(t, Is(err, ErrCourseNotFound, ErrUserNotFound, ErrBlobNotFound))
	assert.False(t, Is(err, ErrCourseNotFound))
}
