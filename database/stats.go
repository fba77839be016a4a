package database

import (
	"context"
	"devtrack/models"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecomputeProjectStats recounts the project's rollup snapshot from current
// work-item state. completedTasks counts completed issues and components;
// milestones are deliberately excluded from that sum. The recount is
// idempotent, so a lost update self-corrects on the next mutation.
func (db *DB) RecomputeProjectStats(ctx context.Context, projectID uuid.UUID) (*models.ProjectStats, error) {
	query := `
		UPDATE projects SET
			stats_components = (SELECT COUNT(*) FROM components WHERE project_id = $1),
			stats_issues = (SELECT COUNT(*) FROM issues WHERE project_id = $1),
			stats_milestones = (SELECT COUNT(*) FROM milestones WHERE project_id = $1),
			stats_completed_tasks =
				(SELECT COUNT(*) FROM issues WHERE project_id = $1 AND status = 'completed') +
				(SELECT COUNT(*) FROM components WHERE project_id = $1 AND status = 'completed')
		WHERE id = $1
		RETURNING stats_components, stats_issues, stats_milestones, stats_completed_tasks
	`

	var stats models.ProjectStats
	err := db.Pool.QueryRow(ctx, query, projectID).Scan(
		&stats.Components, &stats.Issues, &stats.Milestones, &stats.CompletedTasks,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to recompute project stats: %w", err)
	}
	return &stats, nil
}
