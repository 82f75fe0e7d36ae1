package controllers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
)

// CourseController handles course authoring and the course detail view.
type CourseController struct {
	courseService *services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// CreateCourse creates a course with an optional cover image
// @Summary Create a course
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Course title"
// @Param description formData string false "Course description"
// @Param image formData file false "Cover image"
// @Success 201 {object} dto.StructuredResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not an instructor"
// @Failure 415 {object} dto.ErrorResponse "Unsupported image format"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}

	image, err := optionalFormFile(ctx, "image")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), identity, services.CreateCourseInput{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		Image:       image,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewCourseResponse(course), "Course created!"))
}

// GetCourseDetail returns a course with its videos and assignments
// @Summary Course detail
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.CourseDetailResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseDetail(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.courseService.CourseDetail(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CourseDetailResponse{
		Course:      dto.NewCourseResponse(detail.Course),
		Videos:      dto.NewMaterialResponses(detail.Videos),
		Assignments: dto.NewMaterialResponses(detail.Assignments),
	}, ""))
}

// DeleteCourse removes a course owned by the caller
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.StructuredResponse
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), identity, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Course deleted."))
}

// AddVideo uploads a video to a course
// @Summary Upload a course video
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Video title"
// @Param video formData file true "Video file"
// @Success 201 {object} dto.StructuredResponse{data=dto.MaterialResponse}
// @Router /courses/{id}/videos [post]
func (c *CourseController) AddVideo(ctx *gin.Context) {
	c.addMaterial(ctx, "video", c.courseService.AddVideo, "Video uploaded!")
}

// AddAssignment uploads an assignment document to a course
// @Summary Upload a course assignment
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Assignment title"
// @Param assignment formData file true "Assignment document"
// @Success 201 {object} dto.StructuredResponse{data=dto.MaterialResponse}
// @Router /courses/{id}/assignments [post]
func (c *CourseController) AddAssignment(ctx *gin.Context) {
	c.addMaterial(ctx, "assignment", c.courseService.AddAssignment, "Assignment uploaded!")
}

type addMaterialFunc func(ctx context.Context, identity models.Identity, courseID int64, title string, file *multipart.FileHeader) (*models.Material, error)

func (c *CourseController) addMaterial(ctx *gin.Context, field string, add addMaterialFunc, message string) {
	identity, ok := identityOrAbort(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	file, err := optionalFormFile(ctx, field)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	material, err := add(ctx.Request.Context(), identity, courseID, ctx.PostForm("title"), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewMaterialResponse(material), message))
}
