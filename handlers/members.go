package handlers

import (
	"devtrack/database"
	"devtrack/middleware"
	"devtrack/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ListMembers(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		project := middleware.Project(c)
		members, err := db.ListMembers(c.Request.Context(), project.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}

// InviteMember resolves an email to an existing user and appends them with
// the given role. Owner/admin only (route-gated).
func InviteMember(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.InviteMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		actor := middleware.CurrentUser(c)

		invitee, err := db.GetUserByEmail(ctx, req.Email)
		if err != nil {
			writeError(c, err)
			return
		}

		if _, err := db.AddMember(ctx, project.ID, invitee.ID, req.Role); err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityUser,
			Action:      models.ActionJoined,
			EntityID:    invitee.ID,
			EntityTitle: invitee.Username,
			ProjectID:   project.ID,
			ActorID:     actor.ID,
		})

		members, err := db.ListMembers(ctx, project.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}

func UpdateMemberRole(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, err := uuid.Parse(c.Param("memberId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid member ID"})
			return
		}

		var req models.UpdateMemberRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		actor := middleware.CurrentUser(c)

		before, err := db.GetMembership(ctx, project.ID, memberID)
		if err != nil {
			writeError(c, models.ErrMemberNotFound)
			return
		}

		member, err := db.UpdateMemberRole(ctx, project.ID, memberID, req.Role)
		if err != nil {
			writeError(c, err)
			return
		}

		memberUser, err := db.GetUserByID(ctx, member.UserID)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityUser,
			Action:      models.ActionUpdated,
			EntityID:    member.UserID,
			EntityTitle: memberUser.Username,
			ProjectID:   project.ID,
			ActorID:     actor.ID,
			Details: &models.ActivityDetails{
				RoleChange: &models.RoleChangeDetails{
					UserID: member.UserID,
					From:   before.Role,
					To:     member.Role,
				},
			},
		})

		members, err := db.ListMembers(ctx, project.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}

func RemoveMember(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, err := uuid.Parse(c.Param("memberId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid member ID"})
			return
		}

		ctx := c.Request.Context()
		project := middleware.Project(c)
		actor := middleware.CurrentUser(c)

		memberUser, err := db.GetUserByID(ctx, memberID)
		if err != nil {
			writeError(c, models.ErrMemberNotFound)
			return
		}

		removed, err := db.RemoveMember(ctx, project.ID, memberID, actor.ID)
		if err != nil {
			writeError(c, err)
			return
		}

		db.RecordActivity(ctx, models.Activity{
			Type:        models.ActivityUser,
			Action:      models.ActionLeft,
			EntityID:    removed.UserID,
			EntityTitle: memberUser.Username,
			ProjectID:   project.ID,
			ActorID:     actor.ID,
		})

		c.JSON(http.StatusOK, gin.H{"message": "member removed"})
	}
}
