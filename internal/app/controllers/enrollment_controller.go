package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
)

// EnrollmentController handles course lists and enrollment.
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// Enroll adds a course to the caller's list
// @Summary Enroll in a course
// @Description Returns 201 on a new enrollment and 200 when the course was already in the list
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 201 {object} dto.StructuredResponse{data=dto.CourseResponse} "Course added"
// @Success 200 {object} dto.StructuredResponse{data=dto.CourseResponse} "Already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.enrollmentService.Enroll(ctx.Request.Context(), identity, courseID)
	if errors.Is(err, services.ErrAlreadyEnrolled) {
		ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponse(course), services.ErrAlreadyEnrolled.Message))
		return
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewCourseResponse(course), "Course added to your list!"))
}

// MyCourses lists the caller's enrolled courses
// @Summary Enrolled courses
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]dto.CourseResponse}
// @Router /my-courses [get]
func (c *EnrollmentController) MyCourses(ctx *gin.Context) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}

	courses, err := c.enrollmentService.ListEnrolled(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponses(courses), ""))
}

// Recommended lists courses the caller is not enrolled in
// @Summary Recommended courses
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]dto.CourseResponse}
// @Router /recommended [get]
func (c *EnrollmentController) Recommended(ctx *gin.Context) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}

	courses, err := c.enrollmentService.ListRecommended(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponses(courses), ""))
}

// Dashboard returns the role-specific landing view
// @Summary Dashboard
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.DashboardResponse}
// @Router /dashboard [get]
func (c *EnrollmentController) Dashboard(ctx *gin.Context) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}

	d, err := c.enrollmentService.Dashboard(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.DashboardResponse{User: d.Identity}
	if d.Instructor != nil {
		resp.Instructor = &dto.InstructorDashboardResponse{
			Courses:          dto.NewCourseResponses(d.Instructor.Courses),
			TotalCourses:     d.Instructor.TotalCourses,
			TotalEnrollments: d.Instructor.TotalEnrollments,
			DistinctStudents: d.Instructor.DistinctStudents,
		}
	}
	if d.Student != nil {
		resp.Student = &dto.StudentDashboardResponse{
			Enrolled:      dto.NewCourseResponses(d.Student.Enrolled),
			Recommended:   dto.NewCourseResponses(d.Student.Recommended),
			EnrolledCount: d.Student.EnrolledCount,
		}
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, ""))
}
