package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type MilestoneStatus string

const (
	MilestoneNotStarted MilestoneStatus = "not-started"
	MilestoneInProgress MilestoneStatus = "in-progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

// Milestone groups issues and components and tracks their aggregate
// completion. Progress is derived from the linked sets, never set directly.
type Milestone struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ProjectID        uuid.UUID       `json:"project_id" db:"project_id"`
	Title            string          `json:"title" db:"title"`
	Description      string          `json:"description" db:"description"`
	Status           MilestoneStatus `json:"status" db:"status"`
	CreatedBy        uuid.UUID       `json:"created_by" db:"created_by"`
	DueDate          *time.Time      `json:"due_date" db:"due_date"`
	CompletedAt      *time.Time      `json:"completed_at" db:"completed_at"`
	Progress         int             `json:"progress" db:"progress"`
	LinkedIssues     []uuid.UUID     `json:"linked_issues"`
	LinkedComponents []uuid.UUID     `json:"linked_components"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateMilestoneRequest struct {
	Title            string          `json:"title" binding:"required,min=1,max=100"`
	Description      string          `json:"description" binding:"max=1000"`
	Status           MilestoneStatus `json:"status" binding:"omitempty,oneof=not-started in-progress completed"`
	DueDate          *time.Time      `json:"due_date"`
	LinkedIssues     []uuid.UUID     `json:"linked_issues"`
	LinkedComponents []uuid.UUID     `json:"linked_components"`
}

type UpdateMilestoneRequest struct {
	Title            string          `json:"title" binding:"required,min=1,max=100"`
	Description      string          `json:"description" binding:"max=1000"`
	Status           MilestoneStatus `json:"status" binding:"omitempty,oneof=not-started in-progress completed"`
	DueDate          *time.Time      `json:"due_date"`
	LinkedIssues     []uuid.UUID     `json:"linked_issues"`
	LinkedComponents []uuid.UUID     `json:"linked_components"`
}

type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// ReplaceLinksRequest replaces both linked sets wholesale. Absent arrays clear
// the corresponding set.
type ReplaceLinksRequest struct {
	LinkedIssues     []uuid.UUID `json:"linked_issues"`
	LinkedComponents []uuid.UUID `json:"linked_components"`
}

// ComputeProgress returns round(100 * completed / total), or 0 when nothing
// is linked.
func ComputeProgress(total, completed int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
