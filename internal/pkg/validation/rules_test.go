package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"too short", "Ab1", ErrPasswordTooShort},
		{"seven chars", "Abcdef1", ErrPasswordTooShort},
		{"no uppercase", "abcdefg1", ErrPasswordNoUpper},
		{"no lowercase", "ABCDEFG1", ErrPasswordNoLower},
		{"no digit", "Abcdefgh", ErrPasswordNoDigit},
		{"valid", "Abcdefg1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		})
	}
}

func TestValidatePassword_DistinctMessages(t *testing.T) {
	seen := map[string]bool{}
	for _, err := range []error{ErrPasswordTooShort, ErrPasswordNoUpper, ErrPasswordNoLower, ErrPasswordNoDigit} {
		msg, ok := apperrors.Message(err)
		assert.True(t, ok)
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
}

func TestNormalizeUsername(t *testing.T) {
	name, err := NormalizeUsername("  ana  ")
	assert.NoError(t, err)
	assert.Equal(t, "ana", name)

	_, err = NormalizeUsername("   ")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = NormalizeUsername("ana maria")
	assert.ErrorIs(t, err, ErrUsernameMalformed)
}

func TestRequireTitle(t *testing.T) {
	_, err := RequireTitle(" ")
	assert.ErrorIs(t, err, ErrTitleRequired)

	title, err := RequireTitle(" Intro to Go ")
	assert.NoError(t, err)
	assert.Equal(t, "Intro to Go", title)
}
