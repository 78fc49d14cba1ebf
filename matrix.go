package ndb

import "fmt"

// Matrix is an n x d sample matrix stored as a flattened row-major slice.
// It is treated as read-only once handed to FitFromSamples or Evaluate.
type Matrix struct {
	data []float64
	rows int
	dim  int
}

// MatrixFromRows builds a Matrix from a slice of equal-length rows.
// Empty or ragged input fails with ErrInvalidInput. The rows are copied.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("matrix: empty sample set: %w", ErrInvalidInput)
	}

	dim := len(rows[0])
	data := make([]float64, 0, len(rows)*dim)

	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("matrix: ragged input: row %d has %d values, want %d: %w", i, len(row), dim, ErrInvalidInput)
		}
		data = append(data, row...)
	}

	return &Matrix{data: data, rows: len(rows), dim: dim}, nil
}

// MatrixFromFlat builds a Matrix from an already flattened row-major slice.
// The slice is used directly, not copied.
func MatrixFromFlat(data []float64, dim int) (*Matrix, error) {
	if dim <= 0 || len(data) == 0 || len(data)%dim != 0 {
		return nil, fmt.Errorf("matrix: data length %d is not a positive multiple of dim %d: %w", len(data), dim, ErrInvalidInput)
	}

	return &Matrix{data: data, rows: len(data) / dim, dim: dim}, nil
}

// Rows returns the number of samples.
func (m *Matrix) Rows() int { return m.rows }

// Dim returns the sample dimensionality.
func (m *Matrix) Dim() int { return m.dim }

// Row returns the i-th sample vector. The returned slice aliases the
// matrix storage and must not be modified.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.dim : (i+1)*m.dim]
}

func (m *Matrix) at(i, j int) float64 {
	return m.data[i*m.dim+j]
}
