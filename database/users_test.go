package database

import (
	"context"
	"testing"

	"devtrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user, err := db.CreateUser(ctx, "alice", "alice@example.com", "hash")

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	_, err := db.CreateUser(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = db.CreateUser(ctx, "alice2", "alice@example.com", "hash")
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	_, err := db.CreateUser(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = db.CreateUser(ctx, "alice", "other@example.com", "hash")
	assert.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	token, err := db.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	resolved, err := db.GetUserByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	require.NoError(t, db.DeleteSession(ctx, token))

	_, err = db.GetUserByToken(ctx, token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestGetUserByToken_Unknown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	_, err := db.GetUserByToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestUpdateUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	user := createTestUser(t, db, "alice")
	taken := createTestUser(t, db, "bob")

	updated, err := db.UpdateUser(ctx, user.ID, "alice2", "alice2@example.com", "newhash")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice2@example.com", updated.Email)

	_, err = db.UpdateUser(ctx, user.ID, "alice2", taken.Email, "newhash")
	assert.ErrorIs(t, err, models.ErrEmailTaken)

	_, err = db.UpdateUser(ctx, user.ID, taken.Username, "alice2@example.com", "newhash")
	assert.ErrorIs(t, err, models.ErrUsernameTaken)
}
