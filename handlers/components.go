package handlers

import (
	"devtrack/database"
	"devtrack/middleware"
	"devtrack/models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ListComponents(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ComponentFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			writeBindError(c, err)
			return
		}

		project := middleware.Project(c)
		components, err := db.ListComponents(c.Request.Context(), project.ID, filter)
		if err != nil {
			writeError(c, err)
			return
		}

		if filter.View == "tree" {
			c.JSON(http.StatusOK, models.BuildComponentTree(components))
			return
		}
		c.JSON(http.StatusOK, components)
	}
}

func GetComponent(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		componentID, err := uuid.Parse(c.Param("componentId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid component ID"})
			return
		}

		project := middleware.Project(c)
		component, err := db.GetComponent(c.Request.Context(), project.ID, componentID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, component)
	}
}

func CreateComponent(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateComponentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		component, err := db.CreateComponent(ctx, project.ID, user.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityComponent,
			Action:      models.ActionCreated,
			EntityID:    component.ID,
			EntityTitle: component.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusCreated, component)
	}
}

func UpdateComponent(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		componentID, err := uuid.Parse(c.Param("componentId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid component ID"})
			return
		}

		var req models.UpdateComponentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		component, err := db.UpdateComponent(ctx, project.ID, componentID, req)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityComponent,
			Action:      models.ActionUpdated,
			EntityID:    component.ID,
			EntityTitle: component.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusOK, component)
	}
}

func DeleteComponent(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		componentID, err := uuid.Parse(c.Param("componentId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid component ID"})
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		user := middleware.CurrentUser(c)

		component, err := db.DeleteComponent(ctx, project.ID, componentID)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityComponent,
			Action:      models.ActionDeleted,
			EntityID:    component.ID,
			EntityTitle: component.Title,
			ProjectID:   project.ID,
			ActorID:     user.ID,
		})
		recomputeStats(c, db, project.ID)

		c.JSON(http.StatusOK, gin.H{"message": "component deleted"})
	}
}

func ReorderComponent(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		componentID, err := uuid.Parse(c.Param("componentId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid component ID"})
			return
		}

		var req models.ReorderComponentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		project := middleware.Project(c)
		err = db.ReorderComponent(c.Request.Context(), project.ID, componentID, req.NewOrder, req.NewParentID)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "component order updated"})
	}
}

// recomputeStats refreshes the project rollup after a work-item mutation.
// Best effort: failures are logged and swallowed; the recount self-corrects
// on the next successful mutation.
func recomputeStats(c *gin.Context, db *database.DB, projectID uuid.UUID) {
	if _, err := db.RecomputeProjectStats(c.Request.Context(), projectID); err != nil {
		log.Printf("recomputeStats: %v", err)
	}
}
