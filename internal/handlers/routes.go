package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/school-management-api/internal/auth"
	"github.com/yukikurage/school-management-api/internal/middleware"
)

// Handlers groups every resource handler mounted by RegisterRoutes.
type Handlers struct {
	Auth    *AuthHandler
	Users   *UserHandler
	Courses *CourseHandler
	Tasks   *TaskHandler
	Files   *FileHandler
}

// RegisterRoutes mounts the public auth routes and the token protected API on r.
func RegisterRoutes(r gin.IRouter, h Handlers, tokens *auth.Service) {
	// Auth routes (public)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.GET("/me", middleware.RequireAuth(tokens), h.Auth.GetCurrentUser)
	}

	api := r.Group("")
	api.Use(middleware.RequireAuth(tokens))

	users := api.Group("/users")
	{
		users.GET("", h.Users.ListUsers)
		users.POST("", h.Users.CreateUser)
		users.GET("/:id", middleware.RequireID("user"), h.Users.GetUser)
		users.PATCH("/:id", middleware.RequireID("user"), h.Users.UpdateUser)
		users.PUT("/:id", middleware.RequireID("user"), h.Users.UpdateUser)
		users.DELETE("/:id", middleware.RequireID("user"), h.Users.DeleteUser)
		users.GET("/:id/files", middleware.RequireID("user"), h.Users.ListUserFiles)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.ListCourses)
		courses.POST("", h.Courses.CreateCourse)
		courses.GET("/:id", middleware.RequireID("course"), h.Courses.GetCourse)
		courses.PATCH("/:id", middleware.RequireID("course"), h.Courses.UpdateCourse)
		courses.DELETE("/:id", middleware.RequireID("course"), h.Courses.DeleteCourse)
		courses.GET("/:id/files", middleware.RequireID("course"), h.Courses.ListCourseFiles)
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.Tasks.ListTasks)
		tasks.POST("", h.Tasks.CreateTask)
		tasks.GET("/:id", middleware.RequireID("task"), h.Tasks.GetTask)
		tasks.PATCH("/:id", middleware.RequireID("task"), h.Tasks.UpdateTask)
		tasks.DELETE("/:id", middleware.RequireID("task"), h.Tasks.DeleteTask)
		tasks.GET("/:id/files", middleware.RequireID("task"), h.Tasks.ListTaskFiles)
	}

	files := api.Group("/files")
	{
		files.GET("", h.Files.ListFiles)
		files.GET("/:id", middleware.RequireID("file"), h.Files.GetFile)
		files.DELETE("/:id", middleware.RequireID("file"), h.Files.DeleteFile)
	}

	api.POST("/upload", h.Files.UploadFile)
}
