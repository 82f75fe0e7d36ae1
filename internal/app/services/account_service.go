package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/session"
)

// AccountService removes accounts together with everything they own.
type AccountService struct {
	store    repositories.Store
	files    *filestorage.Manager
	sessions *session.Manager
	logger   zerolog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(store repositories.Store, files *filestorage.Manager, sessions *session.Manager, logger zerolog.Logger) *AccountService {
	return &AccountService{store: store, files: files, sessions: sessions, logger: logger}
}

// DeleteAccount removes the user. For an instructor every owned course goes
// first, with its materials and enrollments; then the user's own enrollments;
// then the user. All rows go in one transaction whose last step revokes
// every session of the user; a revocation failure rolls the deletion back so
// no live token outlives its account. Files are removed only after commit.
// Unknown users are a no-op.
func (s *AccountService) DeleteAccount(ctx context.Context, userID int64) error {
	var (
		refs  []string
		found bool
	)

	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		refs, found = nil, false

		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}
		found = true

		ownsCourses, err := user.RoleType.CanAuthorCourses()
		if err != nil {
			return fmt.Errorf("%w: user %d", apperrors.ErrUnknownRole, userID)
		}
		if ownsCourses {
			courses, err := repos.Courses.ListByInstructor(ctx, user.Username)
			if err != nil {
				return err
			}
			for _, course := range courses {
				courseRefs, err := purgeCourse(ctx, repos, course)
				if err != nil {
					return fmt.Errorf("deleting course %d: %w", course.ID, err)
				}
				refs = append(refs, courseRefs...)
			}
		}

		if err := repos.Enrollments.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := repos.Users.Delete(ctx, userID); err != nil {
			return err
		}
		if err := s.sessions.EndAll(ctx, userID); err != nil {
			return fmt.Errorf("revoking sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Account deletion rolled back")
		return err
	}
	if !found {
		return nil
	}

	removeBlobs(ctx, s.files, refs, s.logger)

	s.logger.Info().Int64("userID", userID).Int("blobs", len(refs)).Msg("Account deleted")
	return nil
}

// DeleteOwnAccount deletes the caller's account.
func (s *AccountService) DeleteOwnAccount(ctx context.Context, identity models.Identity) error {
	return s.DeleteAccount(ctx, identity.UserID)
}
