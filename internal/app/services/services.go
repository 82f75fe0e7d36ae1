// Package services holds the application use cases. Every operation takes the
// caller's identity explicitly; nothing is read from ambient request state.
package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
)

// Services bundles every service the transport layer needs.
type Services struct {
	Auth        *AuthService
	Courses     *CourseService
	Enrollments *EnrollmentService
	Accounts    *AccountService
}

// purgeCourse deletes course and every row hanging off it using repos, and
// returns the blob references that must be removed once the caller commits.
func purgeCourse(ctx context.Context, repos *repositories.Repositories, course *models.Course) ([]string, error) {
	var refs []string
	for _, kind := range []models.MaterialKind{models.MaterialVideo, models.MaterialAssignment} {
		materials, err := repos.Materials(kind).ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range materials {
			refs = append(refs, m.Filename)
		}
	}
	if course.Image != nil && *course.Image != "" {
		refs = append(refs, *course.Image)
	}

	if err := repos.Videos.DeleteByCourse(ctx, course.ID); err != nil {
		return nil, err
	}
	if err := repos.Assignments.DeleteByCourse(ctx, course.ID); err != nil {
		return nil, err
	}
	if err := repos.Enrollments.DeleteByCourse(ctx, course.ID); err != nil {
		return nil, err
	}
	if err := repos.Courses.Delete(ctx, course.ID); err != nil {
		return nil, err
	}
	return refs, nil
}

// removeBlobs deletes committed-away blobs. Failures are logged only: the
// rows are already gone and must stay gone.
func removeBlobs(ctx context.Context, files *filestorage.Manager, refs []string, log zerolog.Logger) {
	for _, ref := range refs {
		if err := files.Delete(ctx, ref); err != nil {
			log.Error().Err(err).Str("blob", ref).Msg("Failed to remove blob after commit")
		}
	}
}
