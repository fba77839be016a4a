package main

import (
	"context"
	"devtrack/database"
	"devtrack/handlers"
	"devtrack/middleware"
	"devtrack/models"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	r := gin.Default()

	r.GET("/api/health", handlers.HealthCheck)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.Register(db))
		auth.POST("/login", handlers.Login(db))

		authed := auth.Group("", middleware.AuthRequired(db))
		authed.GET("/me", handlers.Me)
		authed.PUT("/profile", handlers.UpdateProfile(db))
		authed.POST("/logout", handlers.Logout(db))
	}

	projects := r.Group("/api/projects", middleware.AuthRequired(db))
	{
		projects.GET("", handlers.ListProjects(db))
		projects.POST("", handlers.CreateProject(db))
		projects.POST("/join", handlers.JoinProject(db))
	}

	// Everything below is scoped to one project and requires membership.
	scoped := r.Group("/api/projects/:projectId", middleware.AuthRequired(db), middleware.ProjectMember(db))

	manage := middleware.RequireMemberManager()
	edit := middleware.RequireWorkItemEditor()

	scoped.GET("", handlers.GetProject)
	scoped.PUT("", manage, handlers.UpdateProject(db))
	scoped.DELETE("", middleware.RequireRole(models.RoleOwner), handlers.DeleteProject(db))

	scoped.GET("/members", handlers.ListMembers(db))
	scoped.POST("/members/invite", manage, handlers.InviteMember(db))
	scoped.PUT("/members/:memberId", manage, handlers.UpdateMemberRole(db))
	scoped.DELETE("/members/:memberId", manage, handlers.RemoveMember(db))

	scoped.GET("/components", handlers.ListComponents(db))
	scoped.POST("/components", edit, handlers.CreateComponent(db))
	scoped.GET("/components/:componentId", handlers.GetComponent(db))
	scoped.PUT("/components/:componentId", edit, handlers.UpdateComponent(db))
	scoped.DELETE("/components/:componentId", edit, handlers.DeleteComponent(db))
	scoped.PUT("/components/:componentId/order", edit, handlers.ReorderComponent(db))

	scoped.GET("/issues", handlers.ListIssues(db))
	scoped.POST("/issues", edit, handlers.CreateIssue(db))
	scoped.GET("/issues/status/:status", handlers.ListIssuesByStatus(db))
	scoped.GET("/issues/:issueId", handlers.GetIssue(db))
	scoped.PUT("/issues/:issueId", edit, handlers.UpdateIssue(db))
	scoped.DELETE("/issues/:issueId", edit, handlers.DeleteIssue(db))
	scoped.PUT("/issues/:issueId/assign", edit, handlers.AssignIssue(db))

	scoped.GET("/milestones", handlers.ListMilestones(db))
	scoped.POST("/milestones", edit, handlers.CreateMilestone(db))
	scoped.GET("/milestones/:milestoneId", handlers.GetMilestone(db))
	scoped.PUT("/milestones/:milestoneId", edit, handlers.UpdateMilestone(db))
	scoped.DELETE("/milestones/:milestoneId", edit, handlers.DeleteMilestone(db))
	scoped.PUT("/milestones/:milestoneId/progress", edit, handlers.UpdateMilestoneProgress(db))
	scoped.PUT("/milestones/:milestoneId/links", edit, handlers.ReplaceMilestoneLinks(db))
	scoped.PUT("/milestones/:milestoneId/links/:kind/:itemId", edit, handlers.LinkMilestoneItem(db))
	scoped.DELETE("/milestones/:milestoneId/links/:kind/:itemId", edit, handlers.UnlinkMilestoneItem(db))

	scoped.GET("/activities", handlers.ListActivities(db))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server starting on :" + port)
	r.Run(":" + port)
}
