package handlers

import (
	"devtrack/database"
	"devtrack/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListActivities returns the project's audit trail, newest first.
func ListActivities(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		project := middleware.Project(c)
		activities, err := db.ListActivities(c.Request.Context(), project.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, activities)
	}
}
