package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories/memory"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

var (
	ana = models.Identity{UserID: 1, Username: "ana", RoleType: models.RoleInstructor}
	bob = models.Identity{UserID: 2, Username: "bob", RoleType: models.RoleInstructor}
	sam = models.Identity{UserID: 3, Username: "sam", RoleType: models.RoleStudent}
)

func TestValidateInstructor(t *testing.T) {
	s := NewAuthorizationService()

	assert.NoError(t, s.ValidateInstructor(ana))
	assert.ErrorIs(t, s.ValidateInstructor(sam), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, s.ValidateInstructor(models.Identity{RoleType: "ADMIN"}), apperrors.ErrPermissionDenied)
}

func TestCanModifyCourse(t *testing.T) {
	s := NewAuthorizationService()
	course := &models.Course{ID: 1, Instructor: "ana"}

	assert.NoError(t, s.CanModifyCourse(ana, course))
	assert.ErrorIs(t, s.CanModifyCourse(bob, course), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, s.CanModifyCourse(sam, course), apperrors.ErrPermissionDenied)
}

func TestLoadOwnedCourse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.Users.Create(ctx, &models.User{Username: "ana", Password: "h", RoleType: models.RoleInstructor}))
	course := &models.Course{Title: "Go", Instructor: "ana"}
	require.NoError(t, repos.Courses.Create(ctx, course))

	s := NewAuthorizationService()

	got, err := s.LoadOwnedCourse(ctx, repos, ana, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)

	_, err = s.LoadOwnedCourse(ctx, repos, ana, 404)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	_, err = s.LoadOwnedCourse(ctx, repos, bob, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
