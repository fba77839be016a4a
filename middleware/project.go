package middleware

import (
	"devtrack/database"
	"devtrack/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	projectKey    = "current_project"
	membershipKey = "current_membership"
)

// ProjectMember loads the project from the :projectId param and verifies the
// caller holds a membership entry. 404 for missing or soft-deleted projects,
// 403 for non-members. The project and membership are exposed to handlers
// through the typed accessors below.
func ProjectMember(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("projectId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid project ID"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		project, err := db.GetProject(ctx, projectID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "project not found"})
			c.Abort()
			return
		}

		user := CurrentUser(c)
		member, err := db.GetMembership(ctx, project.ID, user.ID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "access denied"})
			c.Abort()
			return
		}

		c.Set(projectKey, project)
		c.Set(membershipKey, member)
		c.Next()
	}
}

// RequireRole gates the route to the given roles. Must run after
// ProjectMember.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
		c.Abort()
	}
}

// RequireMemberManager gates the route to roles that may manage members and
// project settings. Must run after ProjectMember.
func RequireMemberManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Role(c).CanManageMembers() {
			c.JSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireWorkItemEditor gates the route to roles that may mutate components,
// issues and milestones. Must run after ProjectMember.
func RequireWorkItemEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Role(c).CanEditWorkItems() {
			c.JSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Project returns the active project resolved by ProjectMember.
func Project(c *gin.Context) *models.Project {
	project, _ := c.MustGet(projectKey).(*models.Project)
	return project
}

// Membership returns the caller's membership entry for the project.
func Membership(c *gin.Context) *models.Member {
	member, _ := c.MustGet(membershipKey).(*models.Member)
	return member
}

// Role returns the caller's role in the project.
func Role(c *gin.Context) models.Role {
	return Membership(c).Role
}
