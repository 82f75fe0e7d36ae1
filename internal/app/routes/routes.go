package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/middleware"
)

// Controllers groups every controller the router mounts.
type Controllers struct {
	Auth        *controllers.AuthController
	Courses     *controllers.CourseController
	Enrollments *controllers.EnrollmentController
	Accounts    *controllers.AccountController
	Uploads     *controllers.UploadController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", healthHandler)
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.Auth.Signup)
		auth.POST("/login", c.Auth.Login)
	}
	v1.GET("/uploads/:filename", c.Uploads.Serve)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)
		authenticated.GET("/profile", c.Auth.Profile)
		authenticated.DELETE("/account", c.Accounts.DeleteAccount)

		authenticated.GET("/dashboard", c.Enrollments.Dashboard)
		authenticated.GET("/my-courses", c.Enrollments.MyCourses)
		authenticated.GET("/recommended", c.Enrollments.Recommended)

		courses := authenticated.Group("/courses")
		{
			courses.GET("/:id", c.Courses.GetCourseDetail)
			courses.POST("/:id/enroll", c.Enrollments.Enroll)

			instructorOnly := courses.Group("")
			instructorOnly.Use(authMiddleware.RoleRequired(models.RoleInstructor))
			{
				instructorOnly.POST("", c.Courses.CreateCourse)
				instructorOnly.DELETE("/:id", c.Courses.DeleteCourse)
				instructorOnly.POST("/:id/videos", c.Courses.AddVideo)
				instructorOnly.POST("/:id/assignments", c.Courses.AddAssignment)
			}
		}
	}

	router.NoRoute(func(ctx *gin.Context) {
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(detail))
	})
}

func healthHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(gin.H{"status": "ok"}, "Service is healthy"))
}
