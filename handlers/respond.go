package handlers

import (
	"devtrack/models"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// writeError maps the domain error taxonomy to HTTP statuses in one place.
// Unknown errors become a generic 500; details stay in the server log.
func writeError(c *gin.Context, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message})
		return
	}

	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrProjectNotFound),
		errors.Is(err, models.ErrComponentNotFound),
		errors.Is(err, models.ErrIssueNotFound),
		errors.Is(err, models.ErrMilestoneNotFound),
		errors.Is(err, models.ErrMemberNotFound),
		errors.Is(err, models.ErrInvalidCode):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})

	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})

	case errors.Is(err, models.ErrNotAMember),
		errors.Is(err, models.ErrInsufficientPermission):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})

	case errors.Is(err, models.ErrAlreadyMember),
		errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrUsernameTaken),
		errors.Is(err, models.ErrOwnerRoleImmutable),
		errors.Is(err, models.ErrCannotRemoveOwner),
		errors.Is(err, models.ErrCannotRemoveSelf),
		errors.Is(err, models.ErrParentNotFound),
		errors.Is(err, models.ErrParentSelf),
		errors.Is(err, models.ErrParentCycle),
		errors.Is(err, models.ErrHasChildren):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})

	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}
