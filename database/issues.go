package database

import (
	"context"
	"devtrack/models"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const issueColumns = `id, project_id, title, description, priority, status, type,
	component_id, assignee_id, created_by, tags, due_date, estimated_hours, actual_hours,
	completed_at, created_at, updated_at`

func scanIssue(row rowScanner) (*models.Issue, error) {
	var i models.Issue
	err := row.Scan(
		&i.ID, &i.ProjectID, &i.Title, &i.Description, &i.Priority, &i.Status, &i.Type,
		&i.ComponentID, &i.AssigneeID, &i.CreatedBy, &i.Tags, &i.DueDate,
		&i.EstimatedHours, &i.ActualHours, &i.CompletedAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if i.Tags == nil {
		i.Tags = []string{}
	}
	return &i, nil
}

func (db *DB) ListIssues(ctx context.Context, projectID uuid.UUID, filter models.IssueFilter) ([]models.Issue, error) {
	start := time.Now()
	defer func() {
		log.Printf("ListIssues: duration=%v filters=[status=%s type=%s]",
			time.Since(start), filter.Status, filter.Type)
	}()

	qb := NewQueryBuilder()
	qb.AddCondition("project_id", projectID)
	if filter.Status != "" {
		qb.AddCondition("status", filter.Status)
	}
	if filter.Priority != "" {
		qb.AddCondition("priority", filter.Priority)
	}
	if filter.Assignee != "" {
		assignee, err := uuid.Parse(filter.Assignee)
		if err != nil {
			return nil, models.NewValidationError("invalid assignee filter")
		}
		qb.AddCondition("assignee_id", assignee)
	}
	if filter.Type != "" {
		qb.AddCondition("type", filter.Type)
	}
	if filter.Component != "" {
		component, err := uuid.Parse(filter.Component)
		if err != nil {
			return nil, models.NewValidationError("invalid component filter")
		}
		qb.AddCondition("component_id", component)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM issues
		%s
		ORDER BY created_at DESC
	`, issueColumns, qb.WhereClause())

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	issues := []models.Issue{}
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, *i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}
	return issues, nil
}

func (db *DB) GetIssue(ctx context.Context, projectID, issueID uuid.UUID) (*models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = $1 AND project_id = $2`

	issue, err := scanIssue(db.Pool.QueryRow(ctx, query, issueID, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return issue, nil
}

// validateComponentRef checks that a component reference points at an
// existing component in the same project.
func (db *DB) validateComponentRef(ctx context.Context, projectID uuid.UUID, componentID *uuid.UUID) error {
	if componentID == nil {
		return nil
	}
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM components WHERE id = $1 AND project_id = $2`,
		*componentID, projectID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check component reference: %w", err)
	}
	if count == 0 {
		return models.ErrComponentNotFound
	}
	return nil
}

func (db *DB) CreateIssue(ctx context.Context, projectID, createdBy uuid.UUID, req models.CreateIssueRequest) (*models.Issue, error) {
	if err := db.validateComponentRef(ctx, projectID, req.ComponentID); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	status := req.Status
	if status == "" {
		status = models.StatusBacklog
	}
	issueType := req.Type
	if issueType == "" {
		issueType = "task"
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	var completedAt *time.Time
	if status == models.StatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	query := `
		INSERT INTO issues
			(project_id, title, description, priority, status, type, component_id,
			 assignee_id, created_by, tags, due_date, estimated_hours, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + issueColumns

	issue, err := scanIssue(db.Pool.QueryRow(ctx, query,
		projectID, req.Title, req.Description, priority, status, issueType,
		req.ComponentID, req.AssigneeID, createdBy, tags, req.DueDate,
		req.EstimatedHours, completedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// UpdateIssue replaces the mutable fields. Same completed_at rule as
// components: stamped with every completed update, cleared otherwise.
func (db *DB) UpdateIssue(ctx context.Context, projectID, issueID uuid.UUID, req models.UpdateIssueRequest) (*models.Issue, error) {
	if err := db.validateComponentRef(ctx, projectID, req.ComponentID); err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		UPDATE issues
		SET title = $1,
		    description = $2,
		    priority = COALESCE(NULLIF($3, ''), priority),
		    status = COALESCE(NULLIF($4, ''), status),
		    type = COALESCE(NULLIF($5, ''), type),
		    component_id = $6,
		    assignee_id = $7,
		    tags = $8,
		    due_date = $9,
		    estimated_hours = $10,
		    actual_hours = $11,
		    completed_at = CASE WHEN COALESCE(NULLIF($4, ''), status) = 'completed' THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $12 AND project_id = $13
		RETURNING ` + issueColumns

	issue, err := scanIssue(db.Pool.QueryRow(ctx, query,
		req.Title, req.Description, req.Priority, string(req.Status), req.Type,
		req.ComponentID, req.AssigneeID, tags, req.DueDate,
		req.EstimatedHours, req.ActualHours, issueID, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}
	return issue, nil
}

func (db *DB) DeleteIssue(ctx context.Context, projectID, issueID uuid.UUID) (*models.Issue, error) {
	issue, err := db.GetIssue(ctx, projectID, issueID)
	if err != nil {
		return nil, err
	}

	_, err = db.Pool.Exec(ctx, `DELETE FROM issues WHERE id = $1`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete issue: %w", err)
	}
	return issue, nil
}

// AssignIssue sets or clears the assignee.
func (db *DB) AssignIssue(ctx context.Context, projectID, issueID uuid.UUID, assigneeID *uuid.UUID) (*models.Issue, error) {
	query := `
		UPDATE issues
		SET assignee_id = $1, updated_at = NOW()
		WHERE id = $2 AND project_id = $3
		RETURNING ` + issueColumns

	issue, err := scanIssue(db.Pool.QueryRow(ctx, query, assigneeID, issueID, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to assign issue: %w", err)
	}
	return issue, nil
}
