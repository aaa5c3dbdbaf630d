package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studyhub-dev/studyhub/internal/handlers"
	"github.com/studyhub-dev/studyhub/internal/middleware"
	"github.com/studyhub-dev/studyhub/internal/views"
)

func NewRouter(h *handlers.Handler, resolver middleware.SessionResolver, origins []string) (*gin.Engine, error) {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	tmpl, err := views.Load()

	if err != nil {
		return nil, err
	}

	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.SessionMiddleware(resolver))

	r.GET("/", h.Home)
	r.GET("/login", h.LoginScreen)
	r.POST("/login", h.LoginForm)
	r.POST("/register", h.RegisterForm)
	r.POST("/logout", h.LogoutForm)

	screens := r.Group("", middleware.ScreenMiddleware())
	{
		screens.GET("/projects/new", h.CreateProjectScreen)
		screens.POST("/projects/new", h.CreateProjectForm)
		screens.GET("/projects", h.BrowseScreen)
		screens.GET("/projects/mine", h.MyProjectsScreen)
		screens.POST("/projects/:project_id/join", h.JoinProjectForm)
		screens.GET("/messages", h.MessagesScreen)
		screens.POST("/messages", h.SendMessageForm)
		screens.GET("/community", h.CommunityScreen)
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.CreateUser)
			auth.POST("/login", h.LoginUser)
			auth.POST("/logout", h.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), h.Me)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", h.CreateProject)
			projects.GET("", h.ListProjects)
			projects.GET("/mine", h.MyProjects)
			projects.POST("/:project_id/join", h.JoinProject)

			// Message endpoints
			projects.GET("/:project_id/messages", h.GetMessages)
			projects.POST("/:project_id/messages", h.SendMessage)
		}

		api.GET("/community", middleware.AuthMiddleware(), h.Community)
	}

	return r, nil
}
