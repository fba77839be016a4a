package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status is the shared lifecycle for components and issues.
type Status string

const (
	StatusBacklog     Status = "backlog"
	StatusDevReady    Status = "dev-ready"
	StatusDevProgress Status = "dev-progress"
	StatusDevDone     Status = "dev-done"
	StatusCompleted   Status = "completed"
)

// Component is a hierarchical work item. ParentID forms a tree within the
// project; Order is the 0-based sort key among siblings.
type Component struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ProjectID   uuid.UUID  `json:"project_id" db:"project_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Type        string     `json:"type" db:"type"` // component | folder
	Priority    string     `json:"priority" db:"priority"`
	Status      Status     `json:"status" db:"status"`
	ParentID    *uuid.UUID `json:"parent_id" db:"parent_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id" db:"assignee_id"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	Order       int        `json:"order" db:"sort_order"`
	Tags        []string   `json:"tags" db:"tags"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateComponentRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=1000"`
	Type        string     `json:"type" binding:"omitempty,oneof=component folder"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      Status     `json:"status" binding:"omitempty,oneof=backlog dev-ready dev-progress dev-done completed"`
	ParentID    *uuid.UUID `json:"parent_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateComponentRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=1000"`
	Type        string     `json:"type" binding:"omitempty,oneof=component folder"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      Status     `json:"status" binding:"omitempty,oneof=backlog dev-ready dev-progress dev-done completed"`
	ParentID    *uuid.UUID `json:"parent_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
}

type ReorderComponentRequest struct {
	NewOrder    int        `json:"new_order" binding:"min=0"`
	NewParentID *uuid.UUID `json:"new_parent_id"`
}

// ComponentFilter narrows component listings. Zero values mean no filter.
type ComponentFilter struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Assignee string `form:"assignee"`
	Type     string `form:"type"`
	View     string `form:"view"` // "tree" for the nested forest
}

// ComponentNode is a component with its children attached, for tree display.
type ComponentNode struct {
	Component
	Children []*ComponentNode `json:"children"`
}

// BuildComponentTree assembles a rooted forest from a flat component list.
// Roots are rows with a nil parent, a parent id missing from the list, or a
// parent chain that loops back to the row itself (legacy bad data; writes
// reject self-parents and cycles, but such rows must still render as roots
// instead of dropping out of the forest or recursing forever). Children are
// sorted by Order ascending, then creation time.
func BuildComponentTree(components []Component) []*ComponentNode {
	nodes := make(map[uuid.UUID]*ComponentNode, len(components))
	for i := range components {
		c := components[i]
		nodes[c.ID] = &ComponentNode{Component: c, Children: []*ComponentNode{}}
	}

	roots := []*ComponentNode{}
	for _, n := range nodes {
		if n.ParentID == nil || *n.ParentID == n.ID {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*n.ParentID]
		if !ok || inParentCycle(nodes, n) {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	var sortNodes func([]*ComponentNode)
	sortNodes = func(ns []*ComponentNode) {
		sort.SliceStable(ns, func(i, j int) bool {
			if ns[i].Order != ns[j].Order {
				return ns[i].Order < ns[j].Order
			}
			return ns[i].CreatedAt.Before(ns[j].CreatedAt)
		})
		for _, n := range ns {
			sortNodes(n.Children)
		}
	}
	sortNodes(roots)

	return roots
}

// inParentCycle reports whether following n's parent chain leads back to n.
// Every member of a cycle reports true, so the cycle is broken at each member
// and all of them surface as roots.
func inParentCycle(nodes map[uuid.UUID]*ComponentNode, n *ComponentNode) bool {
	current := n.ParentID
	for steps := 0; current != nil && steps < len(nodes); steps++ {
		parent, ok := nodes[*current]
		if !ok {
			return false
		}
		if parent.ID == n.ID {
			return true
		}
		current = parent.ParentID
	}
	return false
}
