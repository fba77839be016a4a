package handlers

import (
	"devtrack/database"
	"devtrack/middleware"
	"devtrack/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ListMilestones(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		project := middleware.Project(c)
		milestones, err := db.ListMilestones(c.Request.Context(), project.ID, c.Query("status"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, milestones)
	}
}

func GetMilestone(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		milestoneID, err := uuid.Parse(c.Param("milestoneId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid milestone ID"})
			return
		}

		project := middleware.Project(c)
		milestone, err := db.GetMilestone(c.Request.Context(), project.ID, milestoneID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, milestone)
	}
}

func CreateMilestone(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateMilestoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		milestone, err := db.CreateMilestone(ctx, project.ID, user.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityMilestone,
			Action:      models.ActionCreated,
			EntityID:    milestone.ID,
			EntityTitle: milestone.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusCreated, milestone)
	}
}

func UpdateMilestone(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		milestoneID, err := uuid.Parse(c.Param("milestoneId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid milestone ID"})
			return
		}

		var req models.UpdateMilestoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		milestone, err := db.UpdateMilestone(ctx, project.ID, milestoneID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityMilestone,
			Action:      models.ActionUpdated,
			EntityID:    milestone.ID,
			EntityTitle: milestone.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusOK, milestone)
	}
}

func DeleteMilestone(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		milestoneID, err := uuid.Parse(c.Param("milestoneId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid milestone ID"})
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		milestone, err := db.DeleteMilestone(ctx, project.ID, milestoneID)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityMilestone,
			Action:      models.ActionDeleted,
			EntityID:    milestone.ID,
			EntityTitle: milestone.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusOK, gin.H{"message": "milestone deleted"})
	}
}

// UpdateMilestoneProgress validates the submitted value's range, then
// recomputes progress from the linked sets. Progress is derived, so the
// stored value is always the recomputed one; the request is a trigger.
func UpdateMilestoneProgress(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		milestoneID, err := uuid.Parse(c.Param("milestoneId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid milestone ID"})
			return
		}

		var req models.UpdateProgressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		if *req.Progress < 0 || *req.Progress > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "progress must be between 0 and 100"})
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)

		if err := db.RecomputeMilestoneProgress(ctx, project.ID, milestoneID); err != nil {
			writeError(c, err)
			return
		}

		milestone, err := db.GetMilestone(ctx, project.ID, milestoneID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, milestone)
	}
}

// ReplaceMilestoneLinks swaps both linked sets wholesale and returns the
// milestone with recomputed progress.
func ReplaceMilestoneLinks(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		milestoneID, err := uuid.Parse(c.Param("milestoneId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid milestone ID"})
			return
		}

		var req models.ReplaceLinksRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		milestone, err := db.ReplaceMilestoneLinks(ctx, project.ID, milestoneID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityMilestone,
			Action:      models.ActionUpdated,
			EntityID:    milestone.ID,
			EntityTitle: milestone.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})

		c.JSON(http.StatusOK, milestone)
	}
}

// LinkMilestoneItem adds one issue or component to the milestone's linked
// set; idempotent.
func LinkMilestoneItem(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		milestoneID, err := uuid.Parse(c.Param("milestoneId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid milestone ID"})
			return
		}
		itemID, err := uuid.Parse(c.Param("itemId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item ID"})
			return
		}
		kind := c.Param("kind")

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		if _, err := db.GetMilestone(ctx, project.ID, milestoneID); err != nil {
			writeError(c, err)
			return
		}

		if err := db.LinkMilestoneItem(ctx, project.ID, milestoneID, kind, itemID); err != nil {
			writeError(c, err)
			return
		}
		if err := db.RecomputeMilestoneProgress(ctx, project.ID, milestoneID); err != nil {
			writeError(c, err)
			return
		}

		milestone, err := db.GetMilestone(ctx, project.ID, milestoneID)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityMilestone,
			Action:      models.ActionUpdated,
			EntityID:    milestone.ID,
			EntityTitle: milestone.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
			Details: &models.ActivityDetails{
				LinkChange: &models.LinkChangeDetails{Kind: kind, ItemID: itemID, Linked: true},
			},
		})

		c.JSON(http.StatusOK, milestone)
	}
}

// UnlinkMilestoneItem removes one item from the linked set; idempotent for
// ids that were never linked.
func UnlinkMilestoneItem(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		milestoneID, err := uuid.Parse(c.Param("milestoneId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid milestone ID"})
			return
		}
		itemID, err := uuid.Parse(c.Param("itemId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item ID"})
			return
		}
		kind := c.Param("kind")

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		if _, err := db.GetMilestone(ctx, project.ID, milestoneID); err != nil {
			writeError(c, err)
			return
		}

		if err := db.UnlinkMilestoneItem(ctx, project.ID, milestoneID, kind, itemID); err != nil {
			writeError(c, err)
			return
		}
		if err := db.RecomputeMilestoneProgress(ctx, project.ID, milestoneID); err != nil {
			writeError(c, err)
			return
		}

		milestone, err := db.GetMilestone(ctx, project.ID, milestoneID)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityMilestone,
			Action:      models.ActionUpdated,
			EntityID:    milestone.ID,
			EntityTitle: milestone.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
			Details: &models.ActivityDetails{
				LinkChange: &models.LinkChangeDetails{Kind: kind, ItemID: itemID, Linked: false},
			},
		})

		c.JSON(http.StatusOK, milestone)
	}
}
