package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/joblink/internal/app/controllers"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/middleware"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Job          *controllers.JobController
	Application  *controllers.ApplicationController
	Conversation *controllers.ConversationController
	Health       *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", c.Health.Health)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	jobs := v1.Group("/jobs")
	{
		jobs.GET("", c.Job.ListJobs)
		jobs.GET("/:id", c.Job.GetJob)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	profile := authenticated.Group("/profile")
	{
		profile.GET("", c.Profile.GetProfile)
		profile.PUT("", c.Profile.UpdateProfile)
		profile.POST("/resume", authMiddleware.RoleRequired(models.RoleStudent), c.Profile.UploadResume)
	}

	recruiter := authenticated.Group("/jobs")
	recruiter.Use(authMiddleware.RoleRequired(models.RoleRecruiter))
	{
		recruiter.POST("", c.Job.CreateJob)
		recruiter.GET("/mine", c.Job.ListMyJobs)
		recruiter.GET("/:id/applicants", c.Application.ListApplicants)
		recruiter.PATCH("/:id/applicants/:studentId/status", c.Application.UpdateStatus)
	}

	student := authenticated.Group("")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.POST("/jobs/:id/apply", c.Application.Apply)
		student.GET("/applications/mine", c.Application.ListMyApplications)
	}

	conversations := authenticated.Group("/conversations")
	{
		conversations.GET("", c.Conversation.ListConversations)
		conversations.GET("/:id", c.Conversation.GetConversation)
		conversations.GET("/:id/messages", c.Conversation.ListMessages)
		conversations.POST("/:id/messages", c.Conversation.PostMessage)
	}
}
