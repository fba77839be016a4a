package models

import (
	"time"

	"github.com/google/uuid"
)

// Issue is a flat work item, optionally linked to a component.
type Issue struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ProjectID      uuid.UUID  `json:"project_id" db:"project_id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	Priority       string     `json:"priority" db:"priority"`
	Status         Status     `json:"status" db:"status"`
	Type           string     `json:"type" db:"type"` // bug | feature | task | improvement
	ComponentID    *uuid.UUID `json:"component_id" db:"component_id"`
	AssigneeID     *uuid.UUID `json:"assignee_id" db:"assignee_id"`
	CreatedBy      uuid.UUID  `json:"created_by" db:"created_by"`
	Tags           []string   `json:"tags" db:"tags"`
	DueDate        *time.Time `json:"due_date" db:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" db:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours" db:"actual_hours"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateIssueRequest struct {
	Title          string     `json:"title" binding:"required,min=1,max=100"`
	Description    string     `json:"description" binding:"max=2000"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status         Status     `json:"status" binding:"omitempty,oneof=backlog dev-ready dev-progress dev-done completed"`
	Type           string     `json:"type" binding:"omitempty,oneof=bug feature task improvement"`
	ComponentID    *uuid.UUID `json:"component_id"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	Tags           []string   `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" binding:"omitempty,min=0"`
}

type UpdateIssueRequest struct {
	Title          string     `json:"title" binding:"required,min=1,max=100"`
	Description    string     `json:"description" binding:"max=2000"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status         Status     `json:"status" binding:"omitempty,oneof=backlog dev-ready dev-progress dev-done completed"`
	Type           string     `json:"type" binding:"omitempty,oneof=bug feature task improvement"`
	ComponentID    *uuid.UUID `json:"component_id"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	Tags           []string   `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" binding:"omitempty,min=0"`
	ActualHours    *float64   `json:"actual_hours" binding:"omitempty,min=0"`
}

type AssignIssueRequest struct {
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

// IssueFilter narrows issue listings. Zero values mean no filter.
type IssueFilter struct {
	Status    string `form:"status"`
	Priority  string `form:"priority"`
	Assignee  string `form:"assignee"`
	Type      string `form:"type"`
	Component string `form:"component"`
}
