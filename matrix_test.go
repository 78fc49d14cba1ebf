package ndb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixFromRows(t *testing.T) {
	m, err := MatrixFromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Dim())
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))
	assert.Equal(t, 6.0, m.at(1, 2))
}

func TestMatrixFromRows_Errors(t *testing.T) {
	_, err := MatrixFromRows(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = MatrixFromRows([][]float64{{}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = MatrixFromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMatrixFromFlat(t *testing.T) {
	m, err := MatrixFromFlat([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, []float64{3, 4}, m.Row(1))
}

func TestMatrixFromFlat_Errors(t *testing.T) {
	_, err := MatrixFromFlat([]float64{1, 2, 3}, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = MatrixFromFlat(nil, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = MatrixFromFlat([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
