package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func TestParseRoleType(t *testing.T) {
	r, err := ParseRoleType("Instructor")
	require.NoError(t, err)
	assert.Equal(t, RoleInstructor, r)

	r, err = ParseRoleType(" student ")
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, r)

	_, err = ParseRoleType("admin")
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)
}

func TestCanAuthorCourses(t *testing.T) {
	ok, err := RoleInstructor.CanAuthorCourses()
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = RoleStudent.CanAuthorCourses()
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = RoleType("ADMIN").CanAuthorCourses()
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)
}

func TestMaterialKindTable(t *testing.T) {
	assert.Equal(t, "videos", MaterialVideo.Table())
	assert.Equal(t, "assignments", MaterialAssignment.Table())
	assert.Panics(t, func() { MaterialKind("quiz").Table() })
}
