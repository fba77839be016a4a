package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"devtrack/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runWithRole(role models.Role, gate gin.HandlerFunc) int {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(membershipKey, &models.Member{Role: role})

	gate(c)
	return w.Code
}

func TestRequireMemberManager(t *testing.T) {
	assert.Equal(t, http.StatusOK, runWithRole(models.RoleOwner, RequireMemberManager()))
	assert.Equal(t, http.StatusOK, runWithRole(models.RoleAdmin, RequireMemberManager()))
	assert.Equal(t, http.StatusForbidden, runWithRole(models.RoleDeveloper, RequireMemberManager()))
	assert.Equal(t, http.StatusForbidden, runWithRole(models.RoleViewer, RequireMemberManager()))
}

func TestRequireWorkItemEditor(t *testing.T) {
	assert.Equal(t, http.StatusOK, runWithRole(models.RoleOwner, RequireWorkItemEditor()))
	assert.Equal(t, http.StatusOK, runWithRole(models.RoleAdmin, RequireWorkItemEditor()))
	assert.Equal(t, http.StatusOK, runWithRole(models.RoleDeveloper, RequireWorkItemEditor()))
	assert.Equal(t, http.StatusForbidden, runWithRole(models.RoleViewer, RequireWorkItemEditor()))
}

func TestRequireRole(t *testing.T) {
	ownerOnly := RequireRole(models.RoleOwner)
	assert.Equal(t, http.StatusOK, runWithRole(models.RoleOwner, ownerOnly))
	assert.Equal(t, http.StatusForbidden, runWithRole(models.RoleAdmin, ownerOnly))
}
