package database

import (
	"context"
	"devtrack/models"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const milestoneColumns = `id, project_id, title, description, status, created_by,
	due_date, completed_at, progress, created_at, updated_at`

const milestoneSelect = `
	SELECT id, project_id, title, description, status, created_by,
	       due_date, completed_at, progress, created_at, updated_at,
	       ARRAY(SELECT issue_id FROM milestone_issues WHERE milestone_id = milestones.id),
	       ARRAY(SELECT component_id FROM milestone_components WHERE milestone_id = milestones.id)
	FROM milestones
`

func scanMilestone(row rowScanner) (*models.Milestone, error) {
	var m models.Milestone
	err := row.Scan(
		&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.Status, &m.CreatedBy,
		&m.DueDate, &m.CompletedAt, &m.Progress, &m.CreatedAt, &m.UpdatedAt,
		&m.LinkedIssues, &m.LinkedComponents,
	)
	if err != nil {
		return nil, err
	}
	if m.LinkedIssues == nil {
		m.LinkedIssues = []uuid.UUID{}
	}
	if m.LinkedComponents == nil {
		m.LinkedComponents = []uuid.UUID{}
	}
	return &m, nil
}

func (db *DB) ListMilestones(ctx context.Context, projectID uuid.UUID, status string) ([]models.Milestone, error) {
	qb := NewQueryBuilder()
	qb.AddCondition("project_id", projectID)
	if status != "" {
		qb.AddCondition("status", status)
	}

	query := fmt.Sprintf(`%s %s ORDER BY due_date ASC NULLS LAST, created_at DESC`,
		milestoneSelect, qb.WhereClause())

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	milestones := []models.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestones: %w", err)
	}
	return milestones, nil
}

func (db *DB) GetMilestone(ctx context.Context, projectID, milestoneID uuid.UUID) (*models.Milestone, error) {
	query := milestoneSelect + ` WHERE id = $1 AND project_id = $2`

	milestone, err := scanMilestone(db.Pool.QueryRow(ctx, query, milestoneID, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to get milestone: %w", err)
	}
	return milestone, nil
}

func (db *DB) CreateMilestone(ctx context.Context, projectID, createdBy uuid.UUID, req models.CreateMilestoneRequest) (*models.Milestone, error) {
	status := req.Status
	if status == "" {
		status = models.MilestoneNotStarted
	}

	query := `
		INSERT INTO milestones (project_id, title, description, status, created_by, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + milestoneColumns

	var m models.Milestone
	err := db.Pool.QueryRow(ctx, query,
		projectID, req.Title, req.Description, status, createdBy, req.DueDate,
	).Scan(
		&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.Status, &m.CreatedBy,
		&m.DueDate, &m.CompletedAt, &m.Progress, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	for _, issueID := range req.LinkedIssues {
		if err := db.LinkMilestoneItem(ctx, projectID, m.ID, "issue", issueID); err != nil {
			return nil, err
		}
	}
	for _, componentID := range req.LinkedComponents {
		if err := db.LinkMilestoneItem(ctx, projectID, m.ID, "component", componentID); err != nil {
			return nil, err
		}
	}

	if err := db.RecomputeMilestoneProgress(ctx, projectID, m.ID); err != nil {
		return nil, err
	}
	return db.GetMilestone(ctx, projectID, m.ID)
}

// UpdateMilestone replaces fields and syncs both linked sets to the request,
// then recomputes progress. Progress itself is never taken from the client.
// Unlike work items, a milestone that stays completed keeps its original
// completed_at.
func (db *DB) UpdateMilestone(ctx context.Context, projectID, milestoneID uuid.UUID, req models.UpdateMilestoneRequest) (*models.Milestone, error) {
	current, err := db.GetMilestone(ctx, projectID, milestoneID)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE milestones
		SET title = $1,
		    description = $2,
		    status = COALESCE(NULLIF($3, ''), status),
		    due_date = $4,
		    completed_at = CASE WHEN COALESCE(NULLIF($3, ''), status) = 'completed' THEN COALESCE(completed_at, NOW()) ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $5 AND project_id = $6
	`
	_, err = db.Pool.Exec(ctx, query,
		req.Title, req.Description, string(req.Status), req.DueDate, milestoneID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}

	if err := db.syncLinks(ctx, projectID, milestoneID, "issue", current.LinkedIssues, req.LinkedIssues); err != nil {
		return nil, err
	}
	if err := db.syncLinks(ctx, projectID, milestoneID, "component", current.LinkedComponents, req.LinkedComponents); err != nil {
		return nil, err
	}

	if err := db.RecomputeMilestoneProgress(ctx, projectID, milestoneID); err != nil {
		return nil, err
	}
	return db.GetMilestone(ctx, projectID, milestoneID)
}

func (db *DB) syncLinks(ctx context.Context, projectID, milestoneID uuid.UUID, kind string, current, desired []uuid.UUID) error {
	want := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}
	have := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		have[id] = true
	}

	for _, id := range current {
		if !want[id] {
			if err := db.UnlinkMilestoneItem(ctx, projectID, milestoneID, kind, id); err != nil {
				return err
			}
		}
	}
	for _, id := range desired {
		if !have[id] {
			if err := db.LinkMilestoneItem(ctx, projectID, milestoneID, kind, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReplaceMilestoneLinks swaps both linked sets for the given ones, diffed into
// link/unlink calls, then recomputes progress.
func (db *DB) ReplaceMilestoneLinks(ctx context.Context, projectID, milestoneID uuid.UUID, req models.ReplaceLinksRequest) (*models.Milestone, error) {
	current, err := db.GetMilestone(ctx, projectID, milestoneID)
	if err != nil {
		return nil, err
	}

	if err := db.syncLinks(ctx, projectID, milestoneID, "issue", current.LinkedIssues, req.LinkedIssues); err != nil {
		return nil, err
	}
	if err := db.syncLinks(ctx, projectID, milestoneID, "component", current.LinkedComponents, req.LinkedComponents); err != nil {
		return nil, err
	}

	if err := db.RecomputeMilestoneProgress(ctx, projectID, milestoneID); err != nil {
		return nil, err
	}
	return db.GetMilestone(ctx, projectID, milestoneID)
}

func milestoneLinkTable(kind string) (table, column string, err error) {
	switch kind {
	case "issue":
		return "milestone_issues", "issue_id", nil
	case "component":
		return "milestone_components", "component_id", nil
	default:
		return "", "", models.NewValidationError("link kind must be issue or component")
	}
}

// LinkMilestoneItem adds an item to a milestone's linked set. Idempotent:
// linking an already-linked item is a no-op. The item must belong to the
// same project.
func (db *DB) LinkMilestoneItem(ctx context.Context, projectID, milestoneID uuid.UUID, kind string, itemID uuid.UUID) error {
	table, column, err := milestoneLinkTable(kind)
	if err != nil {
		return err
	}

	switch kind {
	case "issue":
		if _, err := db.GetIssue(ctx, projectID, itemID); err != nil {
			return err
		}
	case "component":
		if _, err := db.GetComponent(ctx, projectID, itemID); err != nil {
			return err
		}
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (milestone_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		table, column,
	)
	if _, err := db.Pool.Exec(ctx, query, milestoneID, itemID); err != nil {
		return fmt.Errorf("failed to link %s: %w", kind, err)
	}
	return nil
}

// UnlinkMilestoneItem removes an item from the linked set. Idempotent for
// ids that were never linked.
func (db *DB) UnlinkMilestoneItem(ctx context.Context, projectID, milestoneID uuid.UUID, kind string, itemID uuid.UUID) error {
	table, column, err := milestoneLinkTable(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE milestone_id = $1 AND %s = $2`, table, column)
	if _, err := db.Pool.Exec(ctx, query, milestoneID, itemID); err != nil {
		return fmt.Errorf("failed to unlink %s: %w", kind, err)
	}
	return nil
}

// RecomputeMilestoneProgress derives progress from the linked sets and
// applies the auto-promotion rules: 100% promotes to completed (stamping
// completed_at once), any progress promotes not-started to in-progress.
// Status is never demoted here.
func (db *DB) RecomputeMilestoneProgress(ctx context.Context, projectID, milestoneID uuid.UUID) error {
	var total, completed int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'completed')
		FROM (
			SELECT i.status FROM milestone_issues mi
			JOIN issues i ON i.id = mi.issue_id
			WHERE mi.milestone_id = $1
			UNION ALL
			SELECT c.status FROM milestone_components mc
			JOIN components c ON c.id = mc.component_id
			WHERE mc.milestone_id = $1
		) linked
	`, milestoneID).Scan(&total, &completed)
	if err != nil {
		return fmt.Errorf("failed to count linked items: %w", err)
	}

	progress := models.ComputeProgress(total, completed)

	var status models.MilestoneStatus
	err = db.Pool.QueryRow(ctx,
		`SELECT status FROM milestones WHERE id = $1 AND project_id = $2`,
		milestoneID, projectID,
	).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.ErrMilestoneNotFound
		}
		return fmt.Errorf("failed to get milestone status: %w", err)
	}

	switch {
	case progress == 100 && status != models.MilestoneCompleted:
		_, err = db.Pool.Exec(ctx, `
			UPDATE milestones
			SET progress = $1, status = 'completed', completed_at = NOW(), updated_at = NOW()
			WHERE id = $2`, progress, milestoneID)
	case progress > 0 && status == models.MilestoneNotStarted:
		_, err = db.Pool.Exec(ctx, `
			UPDATE milestones
			SET progress = $1, status = 'in-progress', updated_at = NOW()
			WHERE id = $2`, progress, milestoneID)
	default:
		_, err = db.Pool.Exec(ctx,
			`UPDATE milestones SET progress = $1, updated_at = NOW() WHERE id = $2`,
			progress, milestoneID)
	}
	if err != nil {
		return fmt.Errorf("failed to store progress: %w", err)
	}

	log.Printf("Recomputed milestone %s progress: %d%% (%d/%d)", milestoneID, progress, completed, total)
	return nil
}

func (db *DB) DeleteMilestone(ctx context.Context, projectID, milestoneID uuid.UUID) (*models.Milestone, error) {
	milestone, err := db.GetMilestone(ctx, projectID, milestoneID)
	if err != nil {
		return nil, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM milestone_issues WHERE milestone_id = $1`, milestoneID); err != nil {
		return nil, fmt.Errorf("failed to delete issue links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM milestone_components WHERE milestone_id = $1`, milestoneID); err != nil {
		return nil, fmt.Errorf("failed to delete component links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM milestones WHERE id = $1`, milestoneID); err != nil {
		return nil, fmt.Errorf("failed to delete milestone: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit delete: %w", err)
	}
	return milestone, nil
}
