package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// CreateCourseInput is the course creation form.
type CreateCourseInput struct {
	Title       string
	Description string
	Image       *multipart.FileHeader // optional
}

// CourseDetail is a course with its materials, newest first.
type CourseDetail struct {
	Course      *models.Course
	Videos      []*models.Material
	Assignments []*models.Material
}

// CourseService manages courses and their uploaded material.
type CourseService struct {
	store  repositories.Store
	files  *filestorage.Manager
	authz  *auth.AuthorizationService
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store repositories.Store, files *filestorage.Manager, authz *auth.AuthorizationService, logger zerolog.Logger) *CourseService {
	return &CourseService{store: store, files: files, authz: authz, logger: logger}
}

// CreateCourse stores the optional cover image, then the course row. If the
// row cannot be written the image is removed again.
func (s *CourseService) CreateCourse(ctx context.Context, identity models.Identity, in CreateCourseInput) (*models.Course, error) {
	if err := s.authz.ValidateInstructor(identity); err != nil {
		return nil, err
	}
	title, err := validation.RequireTitle(in.Title)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Instructor:  identity.Username,
	}

	if in.Image != nil {
		name, err := s.files.Store(ctx, in.Image, filestorage.ImageExtensions)
		if err != nil {
			return nil, err
		}
		course.Image = &name
	}

	if err := s.store.Repos().Courses.Create(ctx, course); err != nil {
		if course.Image != nil {
			removeBlobs(ctx, s.files, []string{*course.Image}, s.logger)
		}
		return nil, fmt.Errorf("course creation error: %w", err)
	}

	s.logger.Info().Int64("courseID", course.ID).Str("instructor", identity.Username).Msg("Course created")
	return course, nil
}

// GetCourse returns the course or nil when absent.
func (s *CourseService) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	return s.store.Repos().Courses.GetByID(ctx, courseID)
}

// ListCoursesByInstructor returns the instructor's courses, newest first.
func (s *CourseService) ListCoursesByInstructor(ctx context.Context, instructor string) ([]*models.Course, error) {
	return s.store.Repos().Courses.ListByInstructor(ctx, instructor)
}

// CourseDetail loads a course with its videos and assignments.
func (s *CourseService) CourseDetail(ctx context.Context, courseID int64) (*CourseDetail, error) {
	repos := s.store.Repos()
	course, err := repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, auth.ErrCourseNotFound
	}

	videos, err := repos.Videos.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	assignments, err := repos.Assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return &CourseDetail{Course: course, Videos: videos, Assignments: assignments}, nil
}

// AddVideo uploads a video to a course the caller owns.
func (s *CourseService) AddVideo(ctx context.Context, identity models.Identity, courseID int64, title string, file *multipart.FileHeader) (*models.Material, error) {
	return s.addMaterial(ctx, identity, models.MaterialVideo, courseID, title, file)
}

// AddAssignment uploads an assignment document to a course the caller owns.
func (s *CourseService) AddAssignment(ctx context.Context, identity models.Identity, courseID int64, title string, file *multipart.FileHeader) (*models.Material, error) {
	return s.addMaterial(ctx, identity, models.MaterialAssignment, courseID, title, file)
}

func allowedExtensions(kind models.MaterialKind) filestorage.ExtensionSet {
	if kind == models.MaterialVideo {
		return filestorage.VideoExtensions
	}
	return filestorage.DocumentExtensions
}

func (s *CourseService) addMaterial(ctx context.Context, identity models.Identity, kind models.MaterialKind, courseID int64, title string, file *multipart.FileHeader) (*models.Material, error) {
	title, err := validation.RequireTitle(title)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	if _, err := s.authz.LoadOwnedCourse(ctx, repos, identity, courseID); err != nil {
		return nil, err
	}

	name, err := s.files.Store(ctx, file, allowedExtensions(kind))
	if err != nil {
		return nil, err
	}

	material := &models.Material{CourseID: courseID, Title: title, Filename: name}
	if err := repos.Materials(kind).Create(ctx, material); err != nil {
		removeBlobs(ctx, s.files, []string{name}, s.logger)
		return nil, fmt.Errorf("%s creation error: %w", kind, err)
	}

	s.logger.Info().Int64("courseID", courseID).Str("kind", string(kind)).Str("file", name).Msg("Course material added")
	return material, nil
}

// DeleteCourse removes a course the caller owns, with its materials,
// enrollments and files.
func (s *CourseService) DeleteCourse(ctx context.Context, identity models.Identity, courseID int64) error {
	var refs []string
	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		course, err := s.authz.LoadOwnedCourse(ctx, repos, identity, courseID)
		if err != nil {
			return err
		}
		refs, err = purgeCourse(ctx, repos, course)
		return err
	})
	if err != nil {
		return err
	}

	removeBlobs(ctx, s.files, refs, s.logger)
	s.logger.Info().Int64("courseID", courseID).Int("blobs", len(refs)).Msg("Course deleted")
	return nil
}
