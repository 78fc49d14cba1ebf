package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "1.0,2.5,3\n-4,5e-1,6\n")

	rows, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{
		{1.0, 2.5, 3},
		{-4, 0.5, 6},
	}, rows)
}

func TestLoadCSV_RaggedRows(t *testing.T) {
	path := writeFile(t, "1,2,3\n4,5\n")

	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadCSV_NonNumeric(t *testing.T) {
	path := writeFile(t, "1,2\n3,abc\n")

	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadCSV_Missing(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
