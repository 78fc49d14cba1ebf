package kmeans

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCluster(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	// 2 clusters: around (0,0) and (10,10)
	vecs := []float64{
		0, 0, 0, 1, 1, 0,
		10, 10, 10, 11, 11, 10,
	}

	labels, err := Cluster(ctx, vecs, 2, 2, 100, rng)
	require.NoError(t, err)
	require.Len(t, labels, 6)

	// All points of one group share a label, and the groups differ.
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[3], labels[4])
	assert.Equal(t, labels[3], labels[5])
	assert.NotEqual(t, labels[0], labels[3])
}

func TestCluster_LabelsInRange(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	dim := 3
	n := 200
	k := 5
	vecs := make([]float64, n*dim)
	for i := range vecs {
		vecs[i] = rng.Float64()
	}

	labels, err := Cluster(ctx, vecs, dim, k, 50, rng)
	require.NoError(t, err)
	require.Len(t, labels, n)

	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, k)
	}
}

func TestCluster_NotEnoughVectors(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	_, err := Cluster(ctx, []float64{0, 0}, 2, 2, 10, rng)
	assert.Error(t, err)
}

func TestCluster_InvalidInput(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	_, err := Cluster(ctx, []float64{0, 0}, 0, 1, 10, rng)
	assert.Error(t, err)

	_, err = Cluster(ctx, []float64{0, 0, 0}, 2, 1, 10, rng)
	assert.Error(t, err)

	_, err = Cluster(ctx, nil, 2, 1, 10, rng)
	assert.Error(t, err)
}

func TestCluster_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rng := rand.New(rand.NewSource(1))
	vecs := make([]float64, 1000*2)
	for i := range vecs {
		vecs[i] = float64(i)
	}

	_, err := Cluster(ctx, vecs, 2, 10, 1000, rng)
	assert.ErrorIs(t, err, context.Canceled)
}
