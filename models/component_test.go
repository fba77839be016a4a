package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func component(title string, parentID *uuid.UUID, order int) Component {
	return Component{
		ID:        uuid.New(),
		Title:     title,
		ParentID:  parentID,
		Order:     order,
		CreatedAt: time.Now(),
	}
}

func TestBuildComponentTree_Nested(t *testing.T) {
	root := component("Auth Module", nil, 0)
	child1 := component("Login Form", &root.ID, 0)
	child2 := component("Signup Form", &root.ID, 1)
	grandchild := component("Password Field", &child1.ID, 0)

	tree := BuildComponentTree([]Component{grandchild, child2, root, child1})

	require.Len(t, tree, 1)
	assert.Equal(t, "Auth Module", tree[0].Title)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Login Form", tree[0].Children[0].Title)
	assert.Equal(t, "Signup Form", tree[0].Children[1].Title)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Password Field", tree[0].Children[0].Children[0].Title)
}

func TestBuildComponentTree_ChildrenSortedByOrder(t *testing.T) {
	root := component("Root", nil, 0)
	a := component("Third", &root.ID, 2)
	b := component("First", &root.ID, 0)
	c := component("Second", &root.ID, 1)

	tree := BuildComponentTree([]Component{a, b, root, c})

	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 3)
	assert.Equal(t, "First", tree[0].Children[0].Title)
	assert.Equal(t, "Second", tree[0].Children[1].Title)
	assert.Equal(t, "Third", tree[0].Children[2].Title)
}

func TestBuildComponentTree_SelfReferenceIsRoot(t *testing.T) {
	// A row pointing at itself must render as a root, not recurse.
	self := component("Broken", nil, 0)
	self.ParentID = &self.ID
	other := component("Normal", nil, 1)

	done := make(chan []*ComponentNode, 1)
	go func() {
		done <- BuildComponentTree([]Component{self, other})
	}()

	select {
	case tree := <-done:
		require.Len(t, tree, 2)
		titles := []string{tree[0].Title, tree[1].Title}
		assert.Contains(t, titles, "Broken")
		assert.Contains(t, titles, "Normal")
	case <-time.After(2 * time.Second):
		t.Fatal("tree construction did not terminate")
	}
}

func TestBuildComponentTree_ParentCycleMembersAreRoots(t *testing.T) {
	// Two rows pointing at each other must both surface as roots; dropping
	// them would make the subtree vanish from the tree view.
	a := component("Cycle A", nil, 0)
	b := component("Cycle B", &a.ID, 1)
	a.ParentID = &b.ID
	normal := component("Normal", nil, 2)

	done := make(chan []*ComponentNode, 1)
	go func() {
		done <- BuildComponentTree([]Component{a, b, normal})
	}()

	select {
	case tree := <-done:
		require.Len(t, tree, 3)
		seen := map[string]bool{}
		for _, n := range tree {
			seen[n.Title] = true
			assert.Empty(t, n.Children)
		}
		assert.True(t, seen["Cycle A"])
		assert.True(t, seen["Cycle B"])
		assert.True(t, seen["Normal"])
	case <-time.After(2 * time.Second):
		t.Fatal("tree construction did not terminate")
	}
}

func TestBuildComponentTree_MissingParentIsRoot(t *testing.T) {
	orphanParent := uuid.New()
	orphan := component("Orphan", &orphanParent, 0)

	tree := BuildComponentTree([]Component{orphan})

	require.Len(t, tree, 1)
	assert.Equal(t, "Orphan", tree[0].Title)
}

func TestBuildComponentTree_Empty(t *testing.T) {
	assert.Empty(t, BuildComponentTree(nil))
}

func TestBuildComponentTree_MultipleRoots(t *testing.T) {
	r1 := component("B", nil, 1)
	r2 := component("A", nil, 0)

	tree := BuildComponentTree([]Component{r1, r2})

	require.Len(t, tree, 2)
	assert.Equal(t, "A", tree[0].Title)
	assert.Equal(t, "B", tree[1].Title)
}
