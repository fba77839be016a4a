package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateJoinCode(t *testing.T) {
	code := GenerateJoinCode()

	assert.Len(t, code, JoinCodeLength)
	assert.Equal(t, strings.ToUpper(code), code)
	for _, r := range code {
		assert.Contains(t, joinCodeAlphabet, string(r))
	}
}

func TestGenerateJoinCode_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[GenerateJoinCode()] = true
	}
	// 36^8 combinations; 50 draws colliding would indicate a broken generator
	assert.Greater(t, len(seen), 45)
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleOwner.CanManageMembers())
	assert.True(t, RoleAdmin.CanManageMembers())
	assert.False(t, RoleDeveloper.CanManageMembers())
	assert.False(t, RoleViewer.CanManageMembers())

	assert.True(t, RoleOwner.CanEditWorkItems())
	assert.True(t, RoleAdmin.CanEditWorkItems())
	assert.True(t, RoleDeveloper.CanEditWorkItems())
	assert.False(t, RoleViewer.CanEditWorkItems())
}
