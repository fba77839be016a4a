package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityDetails_EncodeDecodeAssignment(t *testing.T) {
	assignee := uuid.New()
	details := &ActivityDetails{
		Assignment: &AssignmentDetails{AssigneeID: &assignee},
	}

	raw, err := details.Encode()
	require.NoError(t, err)

	decoded, err := DecodeActivityDetails(raw)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	require.NotNil(t, decoded.Assignment)
	assert.Equal(t, assignee, *decoded.Assignment.AssigneeID)
	assert.Nil(t, decoded.RoleChange)
	assert.Nil(t, decoded.LinkChange)
}

func TestActivityDetails_EncodeDecodeRoleChange(t *testing.T) {
	userID := uuid.New()
	details := &ActivityDetails{
		RoleChange: &RoleChangeDetails{UserID: userID, From: RoleViewer, To: RoleDeveloper},
	}

	raw, err := details.Encode()
	require.NoError(t, err)

	decoded, err := DecodeActivityDetails(raw)
	require.NoError(t, err)
	require.NotNil(t, decoded.RoleChange)
	assert.Equal(t, RoleViewer, decoded.RoleChange.From)
	assert.Equal(t, RoleDeveloper, decoded.RoleChange.To)
}

func TestActivityDetails_EncodeRejectsEmpty(t *testing.T) {
	_, err := (&ActivityDetails{}).Encode()
	assert.Error(t, err)
}

func TestActivityDetails_EncodeRejectsMultiple(t *testing.T) {
	details := &ActivityDetails{
		Assignment: &AssignmentDetails{},
		LinkChange: &LinkChangeDetails{Kind: "issue", ItemID: uuid.New(), Linked: true},
	}
	_, err := details.Encode()
	assert.Error(t, err)
}

func TestDecodeActivityDetails_Empty(t *testing.T) {
	decoded, err := DecodeActivityDetails(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeActivityDetails_Invalid(t *testing.T) {
	_, err := DecodeActivityDetails([]byte("not json"))
	assert.Error(t, err)
}
