package handlers

import (
	"devtrack/database"
	"devtrack/middleware"
	"devtrack/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func Register(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(c, err)
			return
		}

		ctx := c.Request.Context()
		user, err := db.CreateUser(ctx, req.Username, req.Email, string(hash))
		if err != nil {
			writeError(c, err)
			return
		}

		token, err := db.CreateSession(ctx, user.ID)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.AuthResponse{Token: token, User: *user})
	}
}

func Login(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		user, err := db.GetUserByEmail(ctx, req.Email)
		if err != nil {
			// Do not reveal whether the email exists.
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials"})
			return
		}

		token, err := db.CreateSession(ctx, user.ID)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: *user})
	}
}

func Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func UpdateProfile(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		user := middleware.CurrentUser(c)
		hash := user.PasswordHash

		if req.NewPassword != "" {
			if req.CurrentPassword == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "current password is required"})
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "current password is incorrect"})
				return
			}
			newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				writeError(c, err)
				return
			}
			hash = string(newHash)
		}

		updated, err := db.UpdateUser(c.Request.Context(), user.ID, req.Username, req.Email, hash)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func Logout(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.DeleteSession(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
	}
}
