package models

import (
	"fmt"
	"strings"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleInstructor RoleType = "INSTRUCTOR"
)

// ParseRoleType accepts any casing of a known role name.
func ParseRoleType(s string) (RoleType, error) {
	switch RoleType(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleInstructor:
		return RoleInstructor, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, s)
	}
}

// CanAuthorCourses reports whether the role may create courses and upload
// course material. Unknown roles get an error instead of a silent false.
func (r RoleType) CanAuthorCourses() (bool, error) {
	switch r {
	case RoleInstructor:
		return true, nil
	case RoleStudent:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, string(r))
	}
}

// MaterialKind distinguishes the two kinds of course material.
type MaterialKind string

const (
	MaterialVideo      MaterialKind = "video"
	MaterialAssignment MaterialKind = "assignment"
)

// Table returns the table that stores rows of this kind.
func (k MaterialKind) Table() string {
	switch k {
	case MaterialVideo:
		return "videos"
	case MaterialAssignment:
		return "assignments"
	default:
		panic(fmt.Sprintf("unknown material kind %q", string(k)))
	}
}
