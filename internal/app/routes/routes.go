package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ljcourses/backend/internal/app/controllers"
	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/middleware"
)

// Controllers bundles every controller for route registration
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Category   *controllers.CategoryController
	Course     *controllers.CourseController
	Lesson     *controllers.LessonController
	Enrollment *controllers.EnrollmentController
	Progress   *controllers.ProgressController
}

// SetupRoutes registers all API routes under /api/v1
func SetupRoutes(router *gin.Engine, c *Controllers, authMw *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// Public auth endpoints
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.Refresh)
		auth.POST("/reset-password", c.Auth.ResetPassword)

		authProtected := auth.Group("")
		authProtected.Use(authMw.JWTAuth())
		{
			authProtected.POST("/logout", c.Auth.Logout)
			authProtected.GET("/me", c.Auth.Me)
		}
	}

	// Public catalog reads
	categories := v1.Group("/categories")
	{
		categories.GET("", c.Category.List)
		categories.GET("/:id", c.Category.Get)

		adminOnly := categories.Group("")
		adminOnly.Use(authMw.JWTAuth(), authMw.RoleRequired(models.RoleAdmin))
		{
			adminOnly.POST("", c.Category.Create)
			adminOnly.PUT("/:id", c.Category.Update)
			adminOnly.DELETE("/:id", c.Category.Delete)
		}
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", c.Course.List)
		courses.GET("/:id", c.Course.Get)
		courses.GET("/slug/:slug", c.Course.GetBySlug)
		courses.GET("/:id/lessons", c.Lesson.ListByCourse)

		instructorOnly := courses.Group("")
		instructorOnly.Use(authMw.JWTAuth(), authMw.RoleRequired(models.RoleInstructor, models.RoleAdmin))
		{
			instructorOnly.POST("", c.Course.Create)
			instructorOnly.PUT("/:id", c.Course.Update)
			instructorOnly.DELETE("/:id", c.Course.Delete)
			instructorOnly.POST("/:id/lessons", c.Lesson.Create)
		}
	}

	lessons := v1.Group("/lessons")
	{
		lessons.GET("/:id", c.Lesson.Get)
		lessons.GET("/:id/next", c.Lesson.GetNext)

		instructorOnly := lessons.Group("")
		instructorOnly.Use(authMw.JWTAuth(), authMw.RoleRequired(models.RoleInstructor, models.RoleAdmin))
		{
			instructorOnly.PUT("/:id", c.Lesson.Update)
			instructorOnly.DELETE("/:id", c.Lesson.Delete)
		}
	}

	// Authenticated user endpoints
	users := v1.Group("/users")
	users.Use(authMw.JWTAuth())
	{
		users.GET("", authMw.RoleRequired(models.RoleInstructor, models.RoleAdmin), c.User.List)
		users.GET("/:id", c.User.GetProfile)
		users.PUT("/:id", c.User.UpdateProfile)
		users.DELETE("/:id", c.User.DeleteAccount)
		users.POST("/me/photo", c.User.UploadProfilePhoto)
		users.DELETE("/me/photo", c.User.DeleteProfilePhoto)
	}

	enrollments := v1.Group("/enrollments")
	enrollments.Use(authMw.JWTAuth())
	{
		enrollments.POST("", c.Enrollment.Enroll)
		enrollments.GET("", c.Enrollment.ListMine)
		enrollments.GET("/:id", c.Enrollment.Get)
		enrollments.DELETE("/:id", c.Enrollment.Unenroll)
		enrollments.GET("/:id/progress", c.Progress.GetSummary)
	}

	progress := v1.Group("/lesson-progress")
	progress.Use(authMw.JWTAuth())
	{
		progress.POST("", c.Progress.Start)
		progress.PUT("/:id", c.Progress.Update)
	}
}
