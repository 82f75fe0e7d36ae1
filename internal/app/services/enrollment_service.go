package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// ErrAlreadyEnrolled reports an enrollment that already existed. It is not a
// failure; nothing was changed.
var ErrAlreadyEnrolled = apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, "You already added this course.")

// InstructorDashboard summarizes an instructor's courses.
type InstructorDashboard struct {
	Courses          []*models.Course
	TotalCourses     int
	TotalEnrollments int64
	DistinctStudents int64
}

// StudentDashboard summarizes a student's courses.
type StudentDashboard struct {
	Enrolled      []*models.Course
	Recommended   []*models.Course
	EnrolledCount int
}

// Dashboard holds exactly one of the role-specific views.
type Dashboard struct {
	Identity   models.Identity
	Instructor *InstructorDashboard
	Student    *StudentDashboard
}

// EnrollmentService manages which users take which courses.
type EnrollmentService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store repositories.Store, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{store: store, logger: logger}
}

// Enroll adds courseID to the caller's list. Re-enrolling returns
// ErrAlreadyEnrolled and leaves the single existing row untouched.
func (s *EnrollmentService) Enroll(ctx context.Context, identity models.Identity, courseID int64) (*models.Course, error) {
	repos := s.store.Repos()
	course, err := repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, auth.ErrCourseNotFound
	}

	added, err := repos.Enrollments.Add(ctx, identity.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("enrollment error: %w", err)
	}
	if !added {
		return course, ErrAlreadyEnrolled
	}

	s.logger.Info().Int64("userID", identity.UserID).Int64("courseID", courseID).Msg("User enrolled")
	return course, nil
}

// ListEnrolled returns the user's courses, newest first.
func (s *EnrollmentService) ListEnrolled(ctx context.Context, userID int64) ([]*models.Course, error) {
	return s.store.Repos().Enrollments.ListCoursesForUser(ctx, userID)
}

// ListRecommended returns every course the user is not enrolled in, newest
// first. It never overlaps ListEnrolled.
func (s *EnrollmentService) ListRecommended(ctx context.Context, userID int64) ([]*models.Course, error) {
	return s.store.Repos().Enrollments.ListCoursesNotForUser(ctx, userID)
}

// CountStudents counts enrollment rows across the instructor's courses; one
// student in two courses counts twice.
func (s *EnrollmentService) CountStudents(ctx context.Context, instructor string) (int64, error) {
	return s.store.Repos().Enrollments.CountForInstructor(ctx, instructor)
}

// CountDistinctStudents counts unique users enrolled in the instructor's courses.
func (s *EnrollmentService) CountDistinctStudents(ctx context.Context, instructor string) (int64, error) {
	return s.store.Repos().Enrollments.CountDistinctStudentsForInstructor(ctx, instructor)
}

// Dashboard builds the role-specific landing view.
func (s *EnrollmentService) Dashboard(ctx context.Context, identity models.Identity) (*Dashboard, error) {
	switch identity.RoleType {
	case models.RoleInstructor:
		d, err := s.instructorDashboard(ctx, identity.Username)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Identity: identity, Instructor: d}, nil
	case models.RoleStudent:
		d, err := s.studentDashboard(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Identity: identity, Student: d}, nil
	default:
		return nil, auth.ErrUnknownAccountType
	}
}

func (s *EnrollmentService) instructorDashboard(ctx context.Context, username string) (*InstructorDashboard, error) {
	repos := s.store.Repos()
	courses, err := repos.Courses.ListByInstructor(ctx, username)
	if err != nil {
		return nil, err
	}
	total, err := repos.Enrollments.CountForInstructor(ctx, username)
	if err != nil {
		return nil, err
	}
	distinct, err := repos.Enrollments.CountDistinctStudentsForInstructor(ctx, username)
	if err != nil {
		return nil, err
	}
	return &InstructorDashboard{
		Courses:          courses,
		TotalCourses:     len(courses),
		TotalEnrollments: total,
		DistinctStudents: distinct,
	}, nil
}

func (s *EnrollmentService) studentDashboard(ctx context.Context, userID int64) (*StudentDashboard, error) {
	enrolled, err := s.ListEnrolled(ctx, userID)
	if err != nil {
		return nil, err
	}
	recommended, err := s.ListRecommended(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StudentDashboard{
		Enrolled:      enrolled,
		Recommended:   recommended,
		EnrolledCount: len(enrolled),
	}, nil
}
