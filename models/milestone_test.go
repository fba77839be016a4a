package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	assert.Equal(t, 0, ComputeProgress(0, 0), "no linked items means zero progress")
	assert.Equal(t, 0, ComputeProgress(4, 0))
	assert.Equal(t, 50, ComputeProgress(2, 1))
	assert.Equal(t, 100, ComputeProgress(2, 2))
	assert.Equal(t, 33, ComputeProgress(3, 1))
	assert.Equal(t, 67, ComputeProgress(3, 2))
	assert.Equal(t, 17, ComputeProgress(6, 1))
	assert.Equal(t, 1, ComputeProgress(200, 1), "rounds half up")
}

func TestComputeProgress_Idempotent(t *testing.T) {
	first := ComputeProgress(7, 3)
	second := ComputeProgress(7, 3)
	assert.Equal(t, first, second)
}
