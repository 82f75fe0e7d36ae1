package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/coursehub/internal/app/models"
	appServices "github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// Development accounts created by CreateDefaultData.
const (
	InstructorUsername = "instructor"
	StudentUsername    = "student"
	DefaultPassword    = "Password123"
	DefaultCourseTitle = "Introduction to Go"
)

// CreateDefaultData creates one instructor, one student and one course owned
// by the instructor. Accounts that already exist are left alone, so running
// it on every start is safe.
func CreateDefaultData(ctx context.Context, svc *appServices.Services, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (users/courses)...")
	var finalErr error

	instructor, created, err := ensureUser(ctx, svc, InstructorUsername, appModels.RoleInstructor)
	if err != nil {
		lgr.Error().Err(err).Str("username", InstructorUsername).Msg("Error creating default instructor")
		finalErr = errors.Join(finalErr, err)
	}

	if _, _, err := ensureUser(ctx, svc, StudentUsername, appModels.RoleStudent); err != nil {
		lgr.Error().Err(err).Str("username", StudentUsername).Msg("Error creating default student")
		finalErr = errors.Join(finalErr, err)
	}

	// The course is only seeded alongside a fresh instructor so a course the
	// instructor deleted does not come back.
	if instructor != nil && created {
		course, err := svc.Courses.CreateCourse(ctx, instructor.Identity(), appServices.CreateCourseInput{
			Title:       DefaultCourseTitle,
			Description: "A first course for trying the platform out.",
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Int64("courseID", course.ID).Msg("Default course created")
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation completed.")
	}
	return finalErr
}

func ensureUser(ctx context.Context, svc *appServices.Services, username string, role appModels.RoleType) (*appModels.User, bool, error) {
	user, err := svc.Auth.Register(ctx, username, DefaultPassword, string(role))
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicateUsername) {
		return nil, false, err
	}

	user, err = svc.Auth.Authenticate(ctx, username, DefaultPassword)
	if err != nil {
		// Exists with a changed password; nothing to seed.
		return nil, false, nil
	}
	return user, false, nil
}
