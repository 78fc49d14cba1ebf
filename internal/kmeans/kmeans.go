// Package kmeans implements the Lloyd clustering pass behind bin
// construction. The caller only consumes the per-vector labels, not the
// centroids.
package kmeans

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/evalkit/ndb/distance"
)

// Cluster partitions n dim-dimensional vectors (flattened row-major) into k
// groups using Lloyd's algorithm and returns a label in [0,k) per vector.
//
// Centroids are initialized from a random permutation of the data points;
// clusters that empty out during iteration are re-seeded from a random point.
// The assignment step fans out across CPUs. Cancellation is checked once per
// iteration.
func Cluster(ctx context.Context, vectors []float64, dim, k, maxIter int, rng *rand.Rand) ([]int, error) {
	if dim <= 0 || k <= 0 {
		return nil, fmt.Errorf("kmeans: dim and k must be positive, got dim=%d k=%d", dim, k)
	}

	if len(vectors) == 0 || len(vectors)%dim != 0 {
		return nil, fmt.Errorf("kmeans: vector data length %d is not a positive multiple of dim %d", len(vectors), dim)
	}

	n := len(vectors) / dim
	if n < k {
		return nil, fmt.Errorf("kmeans: %d vectors cannot fill %d clusters", n, k)
	}

	centroids := make([]float64, k*dim)

	// Initialize centroids from distinct random data points.
	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		copy(centroids[i*dim:(i+1)*dim], vectors[perm[i]*dim:(perm[i]+1)*dim])
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	counts := make([]int, k)
	sums := make([]float64, k*dim)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed, err := assign(ctx, vectors, centroids, assignments, dim)
		if err != nil {
			return nil, err
		}

		if changed == 0 {
			break
		}

		// Update step
		for i := range sums {
			sums[i] = 0
		}
		for i := range counts {
			counts[i] = 0
		}

		for i := 0; i < n; i++ {
			cluster := assignments[i]
			vec := vectors[i*dim : (i+1)*dim]
			base := cluster * dim
			for d := 0; d < dim; d++ {
				sums[base+d] += vec[d]
			}
			counts[cluster]++
		}

		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				scale := 1.0 / float64(counts[j])
				for d := 0; d < dim; d++ {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
			} else {
				// Re-seed empty cluster with a random point.
				idx := rng.Intn(n)
				copy(centroids[j*dim:(j+1)*dim], vectors[idx*dim:(idx+1)*dim])
			}
		}
	}

	return assignments, nil
}

// assign maps every vector to its nearest centroid, in parallel over
// contiguous chunks. It returns the number of vectors whose label changed.
func assign(ctx context.Context, vectors, centroids []float64, assignments []int, dim int) (int, error) {
	n := len(vectors) / dim

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	changed := make([]int, workers)

	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}

		g.Go(func() error {
			for i := lo; i < hi; i++ {
				best := distance.Nearest(vectors[i*dim:(i+1)*dim], centroids, dim)
				if assignments[i] != best {
					assignments[i] = best
					changed[w]++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int
	for _, c := range changed {
		total += c
	}
	return total, nil
}
