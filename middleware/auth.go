package middleware

import (
	"devtrack/database"
	"devtrack/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userKey  = "current_user"
	tokenKey = "current_token"
)

// AuthRequired resolves the bearer token to a user and attaches it to the
// request context. Aborts with 401 on any failure.
func AuthRequired(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization format"})
			c.Abort()
			return
		}

		token := parts[1]

		user, err := db.GetUserByToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by AuthRequired.
func CurrentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet(userKey).(*models.User)
	return user
}

// CurrentToken returns the bearer token the request authenticated with.
func CurrentToken(c *gin.Context) string {
	token, _ := c.MustGet(tokenKey).(string)
	return token
}
