package auth

import (
	"context"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// User-facing authorization failures.
var (
	ErrNotInstructor      = apperrors.NewForbiddenError("Only instructors can perform this action.")
	ErrNotCourseOwner     = apperrors.NewForbiddenError("You can only manage your own courses.")
	ErrUnknownAccountType = apperrors.NewForbiddenError("Unknown account type.")
	ErrCourseNotFound     = apperrors.NewCustomError(apperrors.ErrCourseNotFound, "Course not found.")
)

// AuthorizationService answers the two-role questions: may this caller author
// content, and does this caller own this course.
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// ValidateInstructor returns nil only for instructors.
func (s *AuthorizationService) ValidateInstructor(identity models.Identity) error {
	ok, err := identity.RoleType.CanAuthorCourses()
	if err != nil {
		logger.Warn().Err(err).Int64("userID", identity.UserID).Msg("Identity with unknown role")
		return ErrUnknownAccountType
	}
	if !ok {
		return ErrNotInstructor
	}
	return nil
}

// CanModifyCourse checks that identity is the instructor who created course.
func (s *AuthorizationService) CanModifyCourse(identity models.Identity, course *models.Course) error {
	if err := s.ValidateInstructor(identity); err != nil {
		return err
	}
	if course.Instructor != identity.Username {
		return ErrNotCourseOwner
	}
	return nil
}

// LoadOwnedCourse fetches courseID and checks that identity owns it.
func (s *AuthorizationService) LoadOwnedCourse(ctx context.Context, repos *repositories.Repositories, identity models.Identity, courseID int64) (*models.Course, error) {
	if err := s.ValidateInstructor(identity); err != nil {
		return nil, err
	}

	course, err := repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if err := s.CanModifyCourse(identity, course); err != nil {
		return nil, err
	}
	return course, nil
}
