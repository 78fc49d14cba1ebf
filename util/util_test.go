package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformRows(t *testing.T) {
	rng := NewRNG(42)

	rows := rng.UniformRows(100, 5, 0.5)
	require.Len(t, rows, 100)

	for _, row := range rows {
		require.Len(t, row, 5)
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 0.5)
		}
	}
}

func TestUniformRows_Deterministic(t *testing.T) {
	a := NewRNG(7).UniformRows(10, 3, 1.0)
	b := NewRNG(7).UniformRows(10, 3, 1.0)
	assert.Equal(t, a, b)
}
