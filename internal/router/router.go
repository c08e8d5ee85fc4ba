package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/middleware"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.InitAuthorizer(db.DB)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)
			projects.POST("/:project_id/members", handlers.UpdateProjectMembers)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)
			tasks.GET("", handlers.ListTasks)
			tasks.GET("/:task_id", handlers.GetTask)
			tasks.PATCH("/:task_id", handlers.UpdateTask)
			tasks.PATCH("/:task_id/status", handlers.UpdateTaskStatus)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.POST("", handlers.CreateUser)
			users.GET("", handlers.ListUsers)
			users.GET("/:user_id", handlers.GetUser)
			users.PATCH("/:user_id", handlers.UpdateUser)
			users.DELETE("/:user_id", handlers.DeleteUser)
			users.POST("/:user_id/roles", handlers.AssignRoles)
		}

		roles := api.Group("/roles", middleware.AuthMiddleware())
		{
			roles.POST("", handlers.CreateRole)
			roles.GET("", handlers.ListRoles)
			roles.GET("/:role_id", handlers.GetRole)
			roles.PATCH("/:role_id", handlers.UpdateRole)
			roles.DELETE("/:role_id", handlers.DeleteRole)
			roles.POST("/:role_id/permissions", handlers.GrantPermissions)
		}

		permissions := api.Group("/permissions", middleware.AuthMiddleware())
		{
			permissions.POST("", handlers.CreatePermission)
			permissions.GET("", handlers.ListPermissions)
			permissions.GET("/:permission_id", handlers.GetPermission)
			permissions.PATCH("/:permission_id", handlers.UpdatePermission)
			permissions.DELETE("/:permission_id", handlers.DeletePermission)
		}
	}

	return r
}
