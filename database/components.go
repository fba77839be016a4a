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

const componentColumns = `id, project_id, title, description, type, priority, status,
	parent_id, assignee_id, created_by, sort_order, tags, due_date, completed_at,
	created_at, updated_at`

func scanComponent(row rowScanner) (*models.Component, error) {
	var c models.Component
	err := row.Scan(
		&c.ID, &c.ProjectID, &c.Title, &c.Description, &c.Type, &c.Priority, &c.Status,
		&c.ParentID, &c.AssigneeID, &c.CreatedBy, &c.Order, &c.Tags, &c.DueDate, &c.CompletedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}

func (db *DB) ListComponents(ctx context.Context, projectID uuid.UUID, filter models.ComponentFilter) ([]models.Component, error) {
	start := time.Now()
	defer func() {
		log.Printf("ListComponents: duration=%v filters=[status=%s type=%s]",
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

	query := fmt.Sprintf(`
		SELECT %s FROM components
		%s
		ORDER BY sort_order ASC, created_at DESC
	`, componentColumns, qb.WhereClause())

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	defer rows.Close()

	components := []models.Component{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		components = append(components, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating components: %w", err)
	}
	return components, nil
}

func (db *DB) GetComponent(ctx context.Context, projectID, componentID uuid.UUID) (*models.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = $1 AND project_id = $2`

	component, err := scanComponent(db.Pool.QueryRow(ctx, query, componentID, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrComponentNotFound
		}
		return nil, fmt.Errorf("failed to get component: %w", err)
	}
	return component, nil
}

// validateParent checks that a parent reference points at an existing
// component inside the same project.
func (db *DB) validateParent(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM components WHERE id = $1 AND project_id = $2`,
		*parentID, projectID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check parent component: %w", err)
	}
	if count == 0 {
		return models.ErrParentNotFound
	}
	return nil
}

// maxTreeDepth bounds ancestor walks so pre-existing bad data cannot loop
// forever.
const maxTreeDepth = 100

// validateNoCycle walks the prospective parent's ancestor chain and rejects
// the move when the chain passes through the component itself, which would
// detach the whole subtree into a cycle.
func (db *DB) validateNoCycle(ctx context.Context, projectID, componentID uuid.UUID, parentID *uuid.UUID) error {
	current := parentID
	for depth := 0; current != nil && depth < maxTreeDepth; depth++ {
		if *current == componentID {
			return models.ErrParentCycle
		}
		var next *uuid.UUID
		err := db.Pool.QueryRow(ctx,
			`SELECT parent_id FROM components WHERE id = $1 AND project_id = $2`,
			*current, projectID,
		).Scan(&next)
		if err != nil {
			if err == pgx.ErrNoRows {
				return models.ErrParentNotFound
			}
			return fmt.Errorf("failed to walk parent chain: %w", err)
		}
		current = next
	}
	return nil
}

// CreateComponent inserts a component at the end of its sibling list: order
// is the current count of components under the same parent.
func (db *DB) CreateComponent(ctx context.Context, projectID, createdBy uuid.UUID, req models.CreateComponentRequest) (*models.Component, error) {
	if err := db.validateParent(ctx, projectID, req.ParentID); err != nil {
		return nil, err
	}

	componentType := req.Type
	if componentType == "" {
		componentType = "component"
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	status := req.Status
	if status == "" {
		status = models.StatusBacklog
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

	var order int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM components WHERE project_id = $1 AND parent_id IS NOT DISTINCT FROM $2`,
		projectID, req.ParentID,
	).Scan(&order)
	if err != nil {
		return nil, fmt.Errorf("failed to count siblings: %w", err)
	}

	query := `
		INSERT INTO components
			(project_id, title, description, type, priority, status, parent_id,
			 assignee_id, created_by, sort_order, tags, due_date, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + componentColumns

	component, err := scanComponent(db.Pool.QueryRow(ctx, query,
		projectID, req.Title, req.Description, componentType, priority, status,
		req.ParentID, req.AssigneeID, createdBy, order, tags, req.DueDate, completedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create component: %w", err)
	}
	return component, nil
}

// UpdateComponent replaces the mutable fields. Setting status to completed
// stamps completed_at with the update time, refreshed on every completed
// update; any other status clears it. Milestones differ: their stamp marks
// the first completion and is preserved.
func (db *DB) UpdateComponent(ctx context.Context, projectID, componentID uuid.UUID, req models.UpdateComponentRequest) (*models.Component, error) {
	if req.ParentID != nil && *req.ParentID == componentID {
		return nil, models.ErrParentSelf
	}
	if err := db.validateParent(ctx, projectID, req.ParentID); err != nil {
		return nil, err
	}
	if err := db.validateNoCycle(ctx, projectID, componentID, req.ParentID); err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		UPDATE components
		SET title = $1,
		    description = $2,
		    type = COALESCE(NULLIF($3, ''), type),
		    priority = COALESCE(NULLIF($4, ''), priority),
		    status = COALESCE(NULLIF($5, ''), status),
		    parent_id = $6,
		    assignee_id = $7,
		    tags = $8,
		    due_date = $9,
		    completed_at = CASE WHEN COALESCE(NULLIF($5, ''), status) = 'completed' THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $10 AND project_id = $11
		RETURNING ` + componentColumns

	component, err := scanComponent(db.Pool.QueryRow(ctx, query,
		req.Title, req.Description, req.Type, req.Priority, string(req.Status),
		req.ParentID, req.AssigneeID, tags, req.DueDate, componentID, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrComponentNotFound
		}
		return nil, fmt.Errorf("failed to update component: %w", err)
	}
	return component, nil
}

// DeleteComponent removes a leaf component. Components with children must
// have them deleted first; there is no cascading delete.
func (db *DB) DeleteComponent(ctx context.Context, projectID, componentID uuid.UUID) (*models.Component, error) {
	component, err := db.GetComponent(ctx, projectID, componentID)
	if err != nil {
		return nil, err
	}

	var children int
	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM components WHERE parent_id = $1 AND project_id = $2`,
		componentID, projectID,
	).Scan(&children)
	if err != nil {
		return nil, fmt.Errorf("failed to count children: %w", err)
	}
	if children > 0 {
		return nil, models.ErrHasChildren
	}

	_, err = db.Pool.Exec(ctx, `DELETE FROM components WHERE id = $1`, componentID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete component: %w", err)
	}
	return component, nil
}

// ReorderComponent moves a component to a new parent/position and renumbers
// every other sibling under the new parent: sibling i keeps order i, shifted
// up by one from newOrder onward. A full deterministic pass, not a minimal
// diff.
func (db *DB) ReorderComponent(ctx context.Context, projectID, componentID uuid.UUID, newOrder int, newParentID *uuid.UUID) error {
	if newParentID != nil && *newParentID == componentID {
		return models.ErrParentSelf
	}
	if err := db.validateParent(ctx, projectID, newParentID); err != nil {
		return err
	}
	if err := db.validateNoCycle(ctx, projectID, componentID, newParentID); err != nil {
		return err
	}
	if _, err := db.GetComponent(ctx, projectID, componentID); err != nil {
		return err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE components SET sort_order = $1, parent_id = $2, updated_at = NOW() WHERE id = $3`,
		newOrder, newParentID, componentID,
	)
	if err != nil {
		return fmt.Errorf("failed to move component: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT id, sort_order FROM components
		 WHERE project_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND id <> $3
		 ORDER BY sort_order ASC`,
		projectID, newParentID, componentID,
	)
	if err != nil {
		return fmt.Errorf("failed to load siblings: %w", err)
	}

	type sibling struct {
		id    uuid.UUID
		order int
	}
	siblings := []sibling{}
	for rows.Next() {
		var s sibling
		if err := rows.Scan(&s.id, &s.order); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan sibling: %w", err)
		}
		siblings = append(siblings, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating siblings: %w", err)
	}

	for i, s := range siblings {
		target := i
		if i >= newOrder {
			target = i + 1
		}
		if s.order == target {
			continue
		}
		_, err = tx.Exec(ctx,
			`UPDATE components SET sort_order = $1 WHERE id = $2`, target, s.id,
		)
		if err != nil {
			return fmt.Errorf("failed to renumber sibling: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	log.Printf("Reordered component %s to position %d", componentID, newOrder)
	return nil
}
