package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder_Empty(t *testing.T) {
	qb := NewQueryBuilder()

	assert.Equal(t, "", qb.WhereClause())
	assert.Empty(t, qb.Args())
}

func TestQueryBuilder_Conditions(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddCondition("status", "backlog")
	qb.AddCondition("priority", "high")

	assert.Equal(t, "WHERE status = $1 AND priority = $2", qb.WhereClause())
	assert.Equal(t, []interface{}{"backlog", "high"}, qb.Args())
}
