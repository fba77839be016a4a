package database

import (
	"context"
	"testing"

	"devtrack/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMilestone_NoLinks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{
		Title: "v1.0",
	})
	require.NoError(t, err)

	assert.Equal(t, models.MilestoneNotStarted, milestone.Status)
	assert.Equal(t, 0, milestone.Progress)
	assert.Nil(t, milestone.CompletedAt)
	assert.Empty(t, milestone.LinkedIssues)
	assert.Empty(t, milestone.LinkedComponents)
}

func TestMilestoneProgress_AutoPromotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)

	first := createTestIssue(t, db, project, alice, "First")
	second := createTestIssue(t, db, project, alice, "Second")

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{
		Title:        "v1.0",
		LinkedIssues: []uuid.UUID{first.ID, second.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, milestone.Progress)
	assert.Equal(t, models.MilestoneNotStarted, milestone.Status)

	// one of two done: 50%, promoted to in-progress
	completeIssue(t, db, project, first)
	require.NoError(t, db.RecomputeMilestoneProgress(ctx, project.ID, milestone.ID))

	milestone, err = db.GetMilestone(ctx, project.ID, milestone.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, milestone.Progress)
	assert.Equal(t, models.MilestoneInProgress, milestone.Status)
	assert.Nil(t, milestone.CompletedAt)

	// both done: 100%, promoted to completed with a timestamp
	completeIssue(t, db, project, second)
	require.NoError(t, db.RecomputeMilestoneProgress(ctx, project.ID, milestone.ID))

	milestone, err = db.GetMilestone(ctx, project.ID, milestone.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, milestone.Progress)
	assert.Equal(t, models.MilestoneCompleted, milestone.Status)
	require.NotNil(t, milestone.CompletedAt)

	// recomputing again keeps the original completion stamp
	stamp := *milestone.CompletedAt
	require.NoError(t, db.RecomputeMilestoneProgress(ctx, project.ID, milestone.ID))

	milestone, err = db.GetMilestone(ctx, project.ID, milestone.ID)
	require.NoError(t, err)
	assert.Equal(t, stamp, *milestone.CompletedAt)
}

func TestMilestoneProgress_NeverDemotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)
	issue := createTestIssue(t, db, project, alice, "Only")
	completeIssue(t, db, project, issue)

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{
		Title:        "Done at birth",
		LinkedIssues: []uuid.UUID{issue.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MilestoneCompleted, milestone.Status)

	// unlink drops progress to 0 but the completed status stays
	require.NoError(t, db.UnlinkMilestoneItem(ctx, project.ID, milestone.ID, "issue", issue.ID))
	require.NoError(t, db.RecomputeMilestoneProgress(ctx, project.ID, milestone.ID))

	milestone, err = db.GetMilestone(ctx, project.ID, milestone.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, milestone.Progress)
	assert.Equal(t, models.MilestoneCompleted, milestone.Status)
}

func TestLinkMilestoneItem(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)
	issue := createTestIssue(t, db, project, alice, "Linked")
	component := createTestComponent(t, db, project, alice, "Linked too", nil)

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{Title: "M"})
	require.NoError(t, err)

	require.NoError(t, db.LinkMilestoneItem(ctx, project.ID, milestone.ID, "issue", issue.ID))
	require.NoError(t, db.LinkMilestoneItem(ctx, project.ID, milestone.ID, "component", component.ID))
	// linking twice is a no-op, not an error
	require.NoError(t, db.LinkMilestoneItem(ctx, project.ID, milestone.ID, "issue", issue.ID))

	milestone, err = db.GetMilestone(ctx, project.ID, milestone.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{issue.ID}, milestone.LinkedIssues)
	assert.Equal(t, []uuid.UUID{component.ID}, milestone.LinkedComponents)
}

func TestLinkMilestoneItem_Validation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)
	other := createTestProject(t, db, alice)
	foreign := createTestIssue(t, db, other, alice, "Elsewhere")

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{Title: "M"})
	require.NoError(t, err)

	err = db.LinkMilestoneItem(ctx, project.ID, milestone.ID, "issue", uuid.New())
	assert.ErrorIs(t, err, models.ErrIssueNotFound)

	err = db.LinkMilestoneItem(ctx, project.ID, milestone.ID, "issue", foreign.ID)
	assert.ErrorIs(t, err, models.ErrIssueNotFound)

	err = db.LinkMilestoneItem(ctx, project.ID, milestone.ID, "epic", uuid.New())
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUnlinkMilestoneItem_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{Title: "M"})
	require.NoError(t, err)

	// never-linked id unlinks cleanly
	require.NoError(t, db.UnlinkMilestoneItem(ctx, project.ID, milestone.ID, "issue", uuid.New()))
}

func TestUpdateMilestone_SyncsLinks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)

	a := createTestIssue(t, db, project, alice, "A")
	b := createTestIssue(t, db, project, alice, "B")

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{
		Title:        "M",
		LinkedIssues: []uuid.UUID{a.ID},
	})
	require.NoError(t, err)

	// swap A for B
	updated, err := db.UpdateMilestone(ctx, project.ID, milestone.ID, models.UpdateMilestoneRequest{
		Title:        "M",
		LinkedIssues: []uuid.UUID{b.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, updated.LinkedIssues)
}

func TestReplaceMilestoneLinks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)

	issue := createTestIssue(t, db, project, alice, "Swapped in")
	completeIssue(t, db, project, issue)
	component := createTestComponent(t, db, project, alice, "Swapped out", nil)

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{
		Title:            "M",
		LinkedComponents: []uuid.UUID{component.ID},
	})
	require.NoError(t, err)

	replaced, err := db.ReplaceMilestoneLinks(ctx, project.ID, milestone.ID, models.ReplaceLinksRequest{
		LinkedIssues: []uuid.UUID{issue.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{issue.ID}, replaced.LinkedIssues)
	assert.Empty(t, replaced.LinkedComponents)
	// the sole linked item is completed, so the replacement promotes
	assert.Equal(t, 100, replaced.Progress)
	assert.Equal(t, models.MilestoneCompleted, replaced.Status)
}

func TestDeleteMilestone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)
	issue := createTestIssue(t, db, project, alice, "Kept")

	milestone, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{
		Title:        "Doomed",
		LinkedIssues: []uuid.UUID{issue.ID},
	})
	require.NoError(t, err)

	deleted, err := db.DeleteMilestone(ctx, project.ID, milestone.ID)
	require.NoError(t, err)
	assert.Equal(t, milestone.ID, deleted.ID)

	_, err = db.GetMilestone(ctx, project.ID, milestone.ID)
	assert.ErrorIs(t, err, models.ErrMilestoneNotFound)

	// linked work items survive the milestone
	_, err = db.GetIssue(ctx, project.ID, issue.ID)
	require.NoError(t, err)
}

func TestListMilestones_StatusFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	project := createTestProject(t, db, alice)
	issue := createTestIssue(t, db, project, alice, "Done")
	completeIssue(t, db, project, issue)

	_, err := db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{Title: "Open"})
	require.NoError(t, err)
	_, err = db.CreateMilestone(ctx, project.ID, alice.ID, models.CreateMilestoneRequest{
		Title:        "Finished",
		LinkedIssues: []uuid.UUID{issue.ID},
	})
	require.NoError(t, err)

	all, err := db.ListMilestones(ctx, project.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := db.ListMilestones(ctx, project.ID, "completed")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Finished", completed[0].Title)
}
