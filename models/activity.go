package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityProject   ActivityType = "project"
	ActivityComponent ActivityType = "component"
	ActivityIssue     ActivityType = "issue"
	ActivityMilestone ActivityType = "milestone"
	ActivityUser      ActivityType = "user"
)

type ActivityAction string

const (
	ActionCreated   ActivityAction = "created"
	ActionUpdated   ActivityAction = "updated"
	ActionDeleted   ActivityAction = "deleted"
	ActionAssigned  ActivityAction = "assigned"
	ActionCompleted ActivityAction = "completed"
	ActionJoined    ActivityAction = "joined"
	ActionLeft      ActivityAction = "left"
)

// Activity is one immutable audit-log entry. EntityTitle is a snapshot of the
// entity's name at event time, so the log stays readable after deletions.
type Activity struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Type        ActivityType     `json:"type" db:"type"`
	Action      ActivityAction   `json:"action" db:"action"`
	EntityID    uuid.UUID        `json:"entity_id" db:"entity_id"`
	EntityTitle string           `json:"entity_title" db:"entity_title"`
	ProjectID   uuid.UUID        `json:"project_id" db:"project_id"`
	ActorID     uuid.UUID        `json:"actor_id" db:"actor_id"`
	ActorName   string           `json:"actor_name,omitempty"`
	Details     *ActivityDetails `json:"details,omitempty"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// ActivityDetails is a tagged union of per-action payloads. Exactly one field
// is set, matching the activity's type+action; anything else is rejected at
// encode time.
type ActivityDetails struct {
	Assignment *AssignmentDetails `json:"assignment,omitempty"`
	RoleChange *RoleChangeDetails `json:"role_change,omitempty"`
	LinkChange *LinkChangeDetails `json:"link_change,omitempty"`
}

// AssignmentDetails records who an issue was (re)assigned to. A nil assignee
// means the issue was unassigned.
type AssignmentDetails struct {
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

// RoleChangeDetails records a membership role transition.
type RoleChangeDetails struct {
	UserID uuid.UUID `json:"user_id"`
	From   Role      `json:"from"`
	To     Role      `json:"to"`
}

// LinkChangeDetails records a milestone link or unlink.
type LinkChangeDetails struct {
	Kind   string    `json:"kind"` // "issue" | "component"
	ItemID uuid.UUID `json:"item_id"`
	Linked bool      `json:"linked"`
}

// Encode serializes the details for JSONB storage. Exactly one payload must
// be set.
func (d *ActivityDetails) Encode() ([]byte, error) {
	set := 0
	if d.Assignment != nil {
		set++
	}
	if d.RoleChange != nil {
		set++
	}
	if d.LinkChange != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("activity details must carry exactly one payload, got %d", set)
	}
	return json.Marshal(d)
}

// DecodeActivityDetails parses stored JSONB details. Empty input yields nil.
func DecodeActivityDetails(raw []byte) (*ActivityDetails, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var d ActivityDetails
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode activity details: %w", err)
	}
	if d.Assignment == nil && d.RoleChange == nil && d.LinkChange == nil {
		return nil, nil
	}
	return &d, nil
}
