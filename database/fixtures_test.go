package database

import (
	"context"
	"devtrack/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, db *DB, name string) *models.User {
	t.Helper()

	user, err := db.CreateUser(context.Background(), name, name+"@example.com", "x")
	require.NoError(t, err)
	return user
}

func createTestProject(t *testing.T, db *DB, owner *models.User) *models.Project {
	t.Helper()

	project, err := db.CreateProject(context.Background(), owner.ID, models.CreateProjectRequest{
		Name: "Test Project",
	})
	require.NoError(t, err)
	return project
}

func createTestComponent(t *testing.T, db *DB, project *models.Project, creator *models.User, title string, parentID *uuid.UUID) *models.Component {
	t.Helper()

	component, err := db.CreateComponent(context.Background(), project.ID, creator.ID, models.CreateComponentRequest{
		Title:    title,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return component
}

func createTestIssue(t *testing.T, db *DB, project *models.Project, creator *models.User, title string) *models.Issue {
	t.Helper()

	issue, err := db.CreateIssue(context.Background(), project.ID, creator.ID, models.CreateIssueRequest{
		Title: title,
	})
	require.NoError(t, err)
	return issue
}

func completeIssue(t *testing.T, db *DB, project *models.Project, issue *models.Issue) {
	t.Helper()

	_, err := db.UpdateIssue(context.Background(), project.ID, issue.ID, models.UpdateIssueRequest{
		Title:  issue.Title,
		Status: models.StatusCompleted,
	})
	require.NoError(t, err)
}
