package dto

import (
	"time"

	"github.com/yigit/coursehub/internal/app/models"
)

// UploadsPath is the public prefix under which stored blobs are served.
const UploadsPath = "/api/v1/uploads/"

// CourseResponse represents a course in listings and detail views
type CourseResponse struct {
	ID          int64     `json:"id" example:"1"`
	Title       string    `json:"title" example:"Go"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor" example:"ana"`
	Image       string    `json:"image,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MaterialResponse represents a video or an assignment
type MaterialResponse struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"courseId"`
	Kind      string    `json:"kind" enums:"video,assignment"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// CourseDetailResponse is a course with its material, newest first.
type CourseDetailResponse struct {
	Course      CourseResponse     `json:"course"`
	Videos      []MaterialResponse `json:"videos"`
	Assignments []MaterialResponse `json:"assignments"`
}

// InstructorDashboardResponse is the instructor half of a dashboard.
type InstructorDashboardResponse struct {
	Courses          []CourseResponse `json:"courses"`
	TotalCourses     int              `json:"totalCourses"`
	TotalEnrollments int64            `json:"totalEnrollments"`
	DistinctStudents int64            `json:"distinctStudents"`
}

// StudentDashboardResponse is the student half of a dashboard.
type StudentDashboardResponse struct {
	Enrolled      []CourseResponse `json:"enrolled"`
	Recommended   []CourseResponse `json:"recommended"`
	EnrolledCount int              `json:"enrolledCount"`
}

// DashboardResponse holds exactly one of the role-specific views.
type DashboardResponse struct {
	User       models.Identity              `json:"user"`
	Instructor *InstructorDashboardResponse `json:"instructor,omitempty"`
	Student    *StudentDashboardResponse    `json:"student,omitempty"`
}

// NewCourseResponse maps a course model for output.
func NewCourseResponse(c *models.Course) CourseResponse {
	out := CourseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Instructor:  c.Instructor,
		CreatedAt:   c.CreatedAt,
	}
	if c.Image != nil && *c.Image != "" {
		out.Image = *c.Image
		out.ImageURL = UploadsPath + *c.Image
	}
	return out
}

// NewCourseResponses maps a list of courses, never returning nil.
func NewCourseResponses(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseResponse(c))
	}
	return out
}

// NewMaterialResponse maps a material model for output.
func NewMaterialResponse(m *models.Material) MaterialResponse {
	return MaterialResponse{
		ID:        m.ID,
		CourseID:  m.CourseID,
		Kind:      string(m.Kind),
		Title:     m.Title,
		Filename:  m.Filename,
		URL:       UploadsPath + m.Filename,
		CreatedAt: m.CreatedAt,
	}
}

// NewMaterialResponses maps a list of materials, never returning nil.
func NewMaterialResponses(materials []*models.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, NewMaterialResponse(m))
	}
	return out
}
