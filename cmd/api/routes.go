package main

import (
	"net/http"

	"portfolio-api/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, adminMW gin.HandlerFunc, uploadDir string) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "portfolio-api", "status": "ok"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Uploaded assets are served directly from disk.
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	{
		// public
		api.GET("/portfolio", h.Portfolio)
		api.GET("/projects/:id", h.GetProject)
		api.GET("/posts/:id", h.GetPost)
		api.POST("/messages", h.CreateMessage)
		api.POST("/login", h.Login)

		// admin; every route past this middleware needs a valid token
		admin := api.Group("/admin")
		admin.Use(adminMW)
		{
			admin.GET("/analytics", h.AdminAnalytics)

			admin.GET("/projects", h.ListProjects)
			admin.POST("/projects", h.CreateProject)
			admin.PUT("/projects/:id", h.UpdateProject)
			admin.DELETE("/projects/:id", h.DeleteProject)

			admin.GET("/skills", h.ListSkills)
			admin.POST("/skills", h.CreateSkill)
			admin.PUT("/skills/:id", h.UpdateSkill)
			admin.DELETE("/skills/:id", h.DeleteSkill)

			admin.GET("/experiences", h.ListExperiences)
			admin.POST("/experiences", h.CreateExperience)
			admin.PUT("/experiences/:id", h.UpdateExperience)
			admin.DELETE("/experiences/:id", h.DeleteExperience)

			admin.GET("/posts", h.ListPosts)
			admin.POST("/posts", h.CreatePost)
			admin.PUT("/posts/:id", h.UpdatePost)
			admin.DELETE("/posts/:id", h.DeletePost)

			admin.GET("/social-links", h.ListSocialLinks)
			admin.POST("/social-links", h.CreateSocialLink)
			admin.PUT("/social-links/:id", h.UpdateSocialLink)
			admin.DELETE("/social-links/:id", h.DeleteSocialLink)

			admin.GET("/messages", h.ListMessages)
			admin.DELETE("/messages/:id", h.DeleteMessage)

			admin.GET("/settings", h.ListSettings)
			admin.PUT("/settings/:key", h.UpsertSetting)
		}

		// Upload sits outside /admin in the URL space but is still gated.
		api.POST("/upload", adminMW, h.Upload)
	}
}
