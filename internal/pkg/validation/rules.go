package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// PasswordMinLength is the minimum number of characters in a password.
const PasswordMinLength = 8

// Password policy violations. Each wraps apperrors.ErrValidationFailed and
// carries the message shown to the user.
var (
	ErrPasswordTooShort  error = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Password must be at least 8 characters long.")
	ErrPasswordNoUpper   error = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Password must contain an uppercase letter.")
	ErrPasswordNoLower   error = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Password must contain a lowercase letter.")
	ErrPasswordNoDigit   error = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Password must contain a number.")
	ErrUsernameRequired  error = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Username is required!")
	ErrRoleRequired      error = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Please select an account type!")
	ErrTitleRequired     error = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Title is required!")
	ErrUsernameMalformed error = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Username must not contain whitespace.")
)

// ValidatePassword checks the password policy in a fixed order and reports
// the first rule that fails.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	if !hasUpper {
		return ErrPasswordNoUpper
	}
	if !hasLower {
		return ErrPasswordNoLower
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	return nil
}

// NormalizeUsername trims the username and rejects empty or spaced values.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrUsernameRequired
	}
	if strings.ContainsAny(username, " \t\r\n") {
		return "", ErrUsernameMalformed
	}
	return username, nil
}

// RequireTitle trims a title and rejects an empty one.
func RequireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	return title, nil
}
