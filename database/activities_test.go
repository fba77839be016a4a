package database

import (
	"context"
	"testing"

	"devtrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndListActivities(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project := createTestProject(t, db, alice)
	issue := createTestIssue(t, db, project, alice, "Crash on save")

	db.RecordActivity(ctx, models.Activity{
		Type:        models.ActivityIssue,
		Action:      models.ActionCreated,
		EntityID:    issue.ID,
		EntityTitle: issue.Title,
		ProjectID:   project.ID,
		ActorID:     alice.ID,
	})
	db.RecordActivity(ctx, models.Activity{
		Type:        models.ActivityIssue,
		Action:      models.ActionAssigned,
		EntityID:    issue.ID,
		EntityTitle: issue.Title,
		ProjectID:   project.ID,
		ActorID:     alice.ID,
		Details: &models.ActivityDetails{
			Assignment: &models.AssignmentDetails{AssigneeID: &bob.ID},
		},
	})

	activities, err := db.ListActivities(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	// newest first
	newest := activities[0]
	assert.Equal(t, models.ActionAssigned, newest.Action)
	assert.Equal(t, "alice", newest.ActorName)
	require.NotNil(t, newest.Details)
	require.NotNil(t, newest.Details.Assignment)
	assert.Equal(t, bob.ID, *newest.Details.Assignment.AssigneeID)

	oldest := activities[1]
	assert.Equal(t, models.ActionCreated, oldest.Action)
	assert.Equal(t, "Crash on save", oldest.EntityTitle)
	assert.Nil(t, oldest.Details)
}

func TestRecordActivity_NeverFailsCaller(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)
	issue := createTestIssue(t, db, project, alice, "Quiet")

	// malformed details (no payload set) are dropped; the entry still lands
	db.RecordActivity(ctx, models.Activity{
		Type:        models.ActivityIssue,
		Action:      models.ActionUpdated,
		EntityID:    issue.ID,
		EntityTitle: issue.Title,
		ProjectID:   project.ID,
		ActorID:     alice.ID,
		Details:     &models.ActivityDetails{},
	})

	activities, err := db.ListActivities(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Nil(t, activities[0].Details)
}

func TestListActivities_ScopedToProject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	p1 := createTestProject(t, db, alice)
	p2 := createTestProject(t, db, alice)

	db.RecordActivity(ctx, models.Activity{
		Type: models.ActivityProject, Action: models.ActionCreated,
		EntityID: p1.ID, EntityTitle: p1.Name, ProjectID: p1.ID, ActorID: alice.ID,
	})
	db.RecordActivity(ctx, models.Activity{
		Type: models.ActivityProject, Action: models.ActionCreated,
		EntityID: p2.ID, EntityTitle: p2.Name, ProjectID: p2.ID, ActorID: alice.ID,
	})

	activities, err := db.ListActivities(ctx, p1.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, p1.ID, activities[0].ProjectID)
}
