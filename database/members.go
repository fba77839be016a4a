package database

import (
	"context"
	"devtrack/models"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetMembership looks up the user's membership entry for the project.
// Returns ErrNotAMember when absent.
func (db *DB) GetMembership(ctx context.Context, projectID, userID uuid.UUID) (*models.Member, error) {
	query := `
		SELECT project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2
	`

	var m models.Member
	err := db.Pool.QueryRow(ctx, query, projectID, userID).Scan(
		&m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotAMember
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &m, nil
}

func (db *DB) ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.Member, error) {
	query := `
		SELECT m.project_id, m.user_id, m.role, m.joined_at, u.username, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.joined_at ASC
	`

	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt, &m.Username, &m.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

// AddMember appends a membership entry. Fails with ErrAlreadyMember if the
// user already holds one.
func (db *DB) AddMember(ctx context.Context, projectID, userID uuid.UUID, role models.Role) (*models.Member, error) {
	if _, err := db.GetMembership(ctx, projectID, userID); err == nil {
		return nil, models.ErrAlreadyMember
	} else if err != models.ErrNotAMember {
		return nil, err
	}

	query := `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING project_id, user_id, role, joined_at
	`

	var m models.Member
	err := db.Pool.QueryRow(ctx, query, projectID, userID, role).Scan(
		&m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	log.Printf("Added member %s to project %s as %s", userID, projectID, role)
	return &m, nil
}

// UpdateMemberRole changes a member's role. The owner role is immutable in
// both directions: the owner cannot be re-roled, and nobody can be promoted
// to owner (request binding restricts the target roles).
func (db *DB) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role models.Role) (*models.Member, error) {
	member, err := db.GetMembership(ctx, projectID, userID)
	if err != nil {
		if err == models.ErrNotAMember {
			return nil, models.ErrMemberNotFound
		}
		return nil, err
	}
	if member.Role == models.RoleOwner {
		return nil, models.ErrOwnerRoleImmutable
	}

	query := `
		UPDATE project_members
		SET role = $1
		WHERE project_id = $2 AND user_id = $3
		RETURNING project_id, user_id, role, joined_at
	`

	var m models.Member
	err = db.Pool.QueryRow(ctx, query, role, projectID, userID).Scan(
		&m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}
	return &m, nil
}

// RemoveMember deletes a membership entry. The owner cannot be removed, and
// the actor cannot remove themselves.
func (db *DB) RemoveMember(ctx context.Context, projectID, userID, actorID uuid.UUID) (*models.Member, error) {
	member, err := db.GetMembership(ctx, projectID, userID)
	if err != nil {
		if err == models.ErrNotAMember {
			return nil, models.ErrMemberNotFound
		}
		return nil, err
	}
	if member.Role == models.RoleOwner {
		return nil, models.ErrCannotRemoveOwner
	}
	if userID == actorID {
		return nil, models.ErrCannotRemoveSelf
	}

	_, err = db.Pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	log.Printf("Removed member %s from project %s", userID, projectID)
	return member, nil
}
