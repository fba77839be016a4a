package database

import (
	"context"
	"devtrack/models"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// RecordActivity appends one immutable audit-log entry. It never fails the
// triggering operation: encode or insert errors are logged and swallowed.
func (db *DB) RecordActivity(ctx context.Context, activity models.Activity) {
	var details []byte
	if activity.Details != nil {
		encoded, err := activity.Details.Encode()
		if err != nil {
			log.Printf("RecordActivity: dropping malformed details: %v", err)
		} else {
			details = encoded
		}
	}

	query := `
		INSERT INTO activities (type, action, entity_id, entity_title, project_id, actor_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.Pool.Exec(ctx, query,
		activity.Type, activity.Action, activity.EntityID, activity.EntityTitle,
		activity.ProjectID, activity.ActorID, details,
	)
	if err != nil {
		log.Printf("RecordActivity: failed to record %s %s for %s: %v",
			activity.Type, activity.Action, activity.EntityID, err)
	}
}

// ListActivities returns the project's audit trail, newest first. Pagination
// is the caller's concern.
func (db *DB) ListActivities(ctx context.Context, projectID uuid.UUID) ([]models.Activity, error) {
	query := `
		SELECT a.id, a.type, a.action, a.entity_id, a.entity_title, a.project_id,
		       a.actor_id, u.username, a.details, a.created_at
		FROM activities a
		JOIN users u ON u.id = a.actor_id
		WHERE a.project_id = $1
		ORDER BY a.created_at DESC
	`

	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var raw []byte
		err := rows.Scan(
			&a.ID, &a.Type, &a.Action, &a.EntityID, &a.EntityTitle, &a.ProjectID,
			&a.ActorID, &a.ActorName, &raw, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		details, err := models.DecodeActivityDetails(raw)
		if err != nil {
			return nil, err
		}
		a.Details = details
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return activities, nil
}
