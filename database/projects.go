package database

import (
	"context"
	"devtrack/models"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, name, description, type, complexity, code, owner_id, is_active,
	stats_components, stats_issues, stats_milestones, stats_completed_tasks,
	created_at, updated_at`

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Type,
		&p.Complexity,
		&p.Code,
		&p.OwnerID,
		&p.IsActive,
		&p.Stats.Components,
		&p.Stats.Issues,
		&p.Stats.Milestones,
		&p.Stats.CompletedTasks,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts the project with a fresh unique join code and seeds
// the creator as its sole owner-role member.
func (db *DB) CreateProject(ctx context.Context, ownerID uuid.UUID, req models.CreateProjectRequest) (*models.Project, error) {
	projectType := req.Type
	if projectType == "" {
		projectType = "web"
	}
	complexity := req.Complexity
	if complexity == "" {
		complexity = "medium"
	}

	code, err := db.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO projects (name, description, type, complexity, code, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + projectColumns

	project, err := scanProject(tx.QueryRow(ctx, query,
		req.Name, req.Description, projectType, complexity, code, ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, $3)`,
		project.ID, ownerID, models.RoleOwner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit project: %w", err)
	}

	project.UserRole = models.RoleOwner
	log.Printf("Created project: %s (ID: %s, code: %s)", project.Name, project.ID, project.Code)
	return project, nil
}

func (db *DB) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code := models.GenerateJoinCode()
		var count int
		err := db.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM projects WHERE code = $1`, code,
		).Scan(&count)
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique join code")
}

// ListProjectsForUser returns active projects the user belongs to, newest
// update first, each annotated with the user's role.
func (db *DB) ListProjectsForUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	query := `
		SELECT ` + prefixColumns("p", projectColumns) + `, m.role
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1 AND p.is_active
		ORDER BY p.updated_at DESC
	`

	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Type, &p.Complexity, &p.Code,
			&p.OwnerID, &p.IsActive,
			&p.Stats.Components, &p.Stats.Issues, &p.Stats.Milestones, &p.Stats.CompletedTasks,
			&p.CreatedAt, &p.UpdatedAt,
			&p.UserRole,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// GetProject returns an active project. Soft-deleted projects are reported
// as not found.
func (db *DB) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND is_active`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// GetProjectByCode matches a join code case-insensitively among active
// projects.
func (db *DB) GetProjectByCode(ctx context.Context, code string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE code = $1 AND is_active`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, strings.ToUpper(code)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to get project by code: %w", err)
	}
	return project, nil
}

func (db *DB) UpdateProject(ctx context.Context, projectID uuid.UUID, req models.CreateProjectRequest) (*models.Project, error) {
	query := `
		UPDATE projects
		SET name = $1,
		    description = $2,
		    type = COALESCE(NULLIF($3, ''), type),
		    complexity = COALESCE(NULLIF($4, ''), complexity),
		    updated_at = NOW()
		WHERE id = $5 AND is_active
		RETURNING ` + projectColumns

	project, err := scanProject(db.Pool.QueryRow(ctx, query,
		req.Name, req.Description, req.Type, req.Complexity, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// SoftDeleteProject flips is_active off. Work items are left in place but
// become unreachable: every project-scoped query filters on is_active.
func (db *DB) SoftDeleteProject(ctx context.Context, projectID uuid.UUID) error {
	result, err := db.Pool.Exec(ctx,
		`UPDATE projects SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`,
		projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrProjectNotFound
	}

	log.Printf("Soft-deleted project: %s", projectID)
	return nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
