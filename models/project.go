package models

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Role is a per-project membership role gating mutations.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleViewer    Role = "viewer"
)

// CanManageMembers reports whether the role may invite, remove or re-role
// members and change project settings.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanEditWorkItems reports whether the role may create, update or delete
// components, issues and milestones. Viewers are read-only.
func (r Role) CanEditWorkItems() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleDeveloper
}

// Project is the root aggregate. All work items, members and activities are
// scoped to exactly one project. Soft-deleted projects (IsActive=false) are
// invisible to every member-facing query.
type Project struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description" db:"description"`
	Type        string       `json:"type" db:"type"`
	Complexity  string       `json:"complexity" db:"complexity"`
	Code        string       `json:"code" db:"code"`
	OwnerID     uuid.UUID    `json:"owner_id" db:"owner_id"`
	IsActive    bool         `json:"is_active" db:"is_active"`
	Stats       ProjectStats `json:"stats"`
	UserRole    Role         `json:"user_role,omitempty"` // caller's role, set on list
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// ProjectStats is a derived rollup snapshot, recomputed after every work-item
// mutation. Never mutated independently.
type ProjectStats struct {
	Components     int `json:"components"`
	Issues         int `json:"issues"`
	Milestones     int `json:"milestones"`
	CompletedTasks int `json:"completed_tasks"`
}

// Member is one (user, role) pair in a project. Username/Email are joined in
// from the users table for display.
type Member struct {
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Role      Role      `json:"role" db:"role"`
	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Type        string `json:"type" binding:"omitempty,oneof=web mobile desktop api other"`
	Complexity  string `json:"complexity" binding:"omitempty,oneof=low medium high"`
}

type JoinProjectRequest struct {
	Code string `json:"code" binding:"required,len=8"`
}

type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  Role   `json:"role" binding:"required,oneof=admin developer viewer"`
}

type UpdateMemberRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=admin developer viewer"`
}

type ProjectsResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}

// JoinCodeLength is the fixed length of a project join code.
const JoinCodeLength = 8

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateJoinCode returns a random 8-character uppercase alphanumeric code.
// Uniqueness is enforced by the store; callers retry on collision.
func GenerateJoinCode() string {
	buf := make([]byte, JoinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		buf[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(buf)
}
