package handlers

import (
	"devtrack/database"
	"devtrack/middleware"
	"devtrack/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

func CreateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		project, err := db.CreateProject(ctx, user.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityProject,
			Action:      models.ActionCreated,
			EntityID:    project.ID,
			EntityTitle: project.Name,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})

		c.JSON(http.StatusCreated, project)
	}
}

func ListProjects(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		projects, err := db.ListProjectsForUser(c.Request.Context(), user.ID)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ProjectsResponse{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

func GetProject(c *gin.Context) {
	project := middleware.Project(c)
	project.UserRole = middleware.Role(c)
	c.JSON(http.StatusOK, project)
}

func UpdateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		updated, err := db.UpdateProject(ctx, project.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityProject,
			Action:      models.ActionUpdated,
			EntityID:    updated.ID,
			EntityTitle: updated.Name,
			ProjectID:   updated.ID,
			ActorID:     user.ID,
		})

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		if err := db.SoftDeleteProject(ctx, project.ID); err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityProject,
			Action:      models.ActionDeleted,
			EntityID:    project.ID,
			EntityTitle: project.Name,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})

		c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
	}
}

// JoinProject enrolls the caller as a developer via an 8-character join
// code. Codes are matched case-insensitively among active projects.
func JoinProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.JoinProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		project, err := db.GetProjectByCode(ctx, req.Code)
		if err != nil {
			writeError(c, err)
			return
		}

		if _, err := db.AddMember(ctx, project.ID, user.ID, models.RoleDeveloper); err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityUser,
			Action:      models.ActionJoined,
			EntityID:    user.ID,
			EntityTitle: user.Username,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})

		project.UserRole = models.RoleDeveloper
		c.JSON(http.StatusOK, project)
	}
}
