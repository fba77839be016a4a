package handlers

import (
	"devtrack/database"
	"devtrack/middleware"
	"devtrack/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ListIssues(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.IssueFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			writeBindError(c, err)
			return
		}

		project := middleware.Project(c)
		issues, err := db.ListIssues(c.Request.Context(), project.ID, filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, issues)
	}
}

// ListIssuesByStatus serves one kanban column.
func ListIssuesByStatus(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		project := middleware.Project(c)
		filter := models.IssueFilter{Status: c.Param("status")}

		issues, err := db.ListIssues(c.Request.Context(), project.ID, filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, issues)
	}
}

func GetIssue(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		issueID, err := uuid.Parse(c.Param("issueId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid issue ID"})
			return
		}

		project := middleware.Project(c)
		issue, err := db.GetIssue(c.Request.Context(), project.ID, issueID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, issue)
	}
}

func CreateIssue(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateIssueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		issue, err := db.CreateIssue(ctx, project.ID, user.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityIssue,
			Action:      models.ActionCreated,
			EntityID:    issue.ID,
			EntityTitle: issue.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusCreated, issue)
	}
}

func UpdateIssue(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		issueID, err := uuid.Parse(c.Param("issueId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid issue ID"})
			return
		}

		var req models.UpdateIssueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		issue, err := db.UpdateIssue(ctx, project.ID, issueID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityIssue,
			Action:      models.ActionUpdated,
			EntityID:    issue.ID,
			EntityTitle: issue.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusOK, issue)
	}
}

func DeleteIssue(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		issueID, err := uuid.Parse(c.Param("issueId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid issue ID"})
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		issue, err := db.DeleteIssue(ctx, project.ID, issueID)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityIssue,
			Action:      models.ActionDeleted,
			EntityID:    issue.ID,
			EntityTitle: issue.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusOK, gin.H{"message": "issue deleted"})
	}
}

func AssignIssue(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		issueID, err := uuid.Parse(c.Param("issueId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid issue ID"})
			return
		}

		var req models.AssignIssueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		issue, err := db.AssignIssue(ctx, project.ID, issueID, req.AssigneeID)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityIssue,
			Action:      models.ActionAssigned,
			EntityID:    issue.ID,
			EntityTitle: issue.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
			Details: &models.ActivityDetails{
				Assignment: &models.AssignmentDetails{AssigneeID: req.AssigneeID},
			},
		})

		c.JSON(http.StatusOK, issue)
	}
}
